package demucs

import (
	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
)

// channelGroup is one demucs run: a pair of input channels, or a single
// channel that gets duplicated into a pair
type channelGroup struct {
	left  int
	right int
	mono  bool
}

func pairChannels(buffer audioentity.Buffer) []channelGroup {
	count := buffer.ChannelCount()
	groups := make([]channelGroup, 0, (count+1)/2)

	for left := 0; left < count; left += 2 {
		if left+1 < count {
			groups = append(groups, channelGroup{left: left, right: left + 1})
		} else {
			groups = append(groups, channelGroup{left: left, right: left, mono: true})
		}
	}

	return groups
}

func (c channelGroup) stereo(buffer audioentity.Buffer) audioentity.Buffer {
	return audioentity.Buffer{
		SampleRate: buffer.SampleRate,
		Channels:   [][]float32{buffer.Channels[c.left], buffer.Channels[c.right]},
	}
}

// fold turns a stem of this group back into the channels it came from
func (c channelGroup) fold(stem audioentity.Buffer) [][]float32 {
	if !c.mono {
		return stem.Channels
	}

	if stem.ChannelCount() == 0 {
		return nil
	}

	averaged := make([]float32, stem.Len())
	for i := range averaged {
		sum := float32(0)
		for _, channel := range stem.Channels {
			if i < len(channel) {
				sum += channel[i]
			}
		}
		averaged[i] = sum / float32(stem.ChannelCount())
	}

	return [][]float32{averaged}
}

// joinGroups stacks the stems of each group back into full channel layouts.
// A category missing from any group is left out entirely.
func joinGroups(groups []channelGroup, groupStems []map[audioentity.Category]audioentity.Buffer) map[audioentity.Category]audioentity.Buffer {
	if len(groupStems) == 1 && !groups[0].mono {
		return groupStems[0]
	}

	stems := map[audioentity.Category]audioentity.Buffer{}

	for category, first := range groupStems[0] {
		joined := audioentity.Buffer{SampleRate: first.SampleRate}
		complete := true

		for i, group := range groups {
			stem, ok := groupStems[i][category]
			if !ok {
				complete = false
				break
			}

			joined.Channels = append(joined.Channels, group.fold(stem)...)
		}

		if complete {
			stems[category] = joined
		}
	}

	return stems
}
