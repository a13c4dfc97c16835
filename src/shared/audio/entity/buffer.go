package audioentity

import (
	"math"
	"time"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

// Buffer holds one waveform as a slice of samples per channel.
// Every channel has the same, non-zero length.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

func NewBuffer(sampleRate int, channels [][]float32) (Buffer, error) {
	buffer := Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
	}

	if err := buffer.Validate(); err != nil {
		return Buffer{}, err
	}

	return buffer, nil
}

// Silence makes an all-zero buffer
func Silence(sampleRate int, channelCount int, length int) Buffer {
	channels := make([][]float32, channelCount)
	for i := range channels {
		channels[i] = make([]float32, length)
	}

	return Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

func (b Buffer) Validate() error {
	errctx := cerr.Field("sample_rate", b.SampleRate).Field("channel_count", len(b.Channels))

	if b.SampleRate <= 0 {
		return errctx.Error("Sample rate must be positive")
	}

	if len(b.Channels) == 0 {
		return errctx.Error("Audio must have at least one channel")
	}

	length := len(b.Channels[0])
	if length == 0 {
		return errctx.Error("Audio must have at least one sample")
	}

	for i, channel := range b.Channels {
		if len(channel) != length {
			return errctx.Fields(cerr.F{
				"channel":         i,
				"channel_length":  len(channel),
				"expected_length": length,
			}).Error("Channels have unequal lengths")
		}
	}

	return nil
}

func (b Buffer) ChannelCount() int {
	return len(b.Channels)
}

// Len is the number of samples per channel
func (b Buffer) Len() int {
	if len(b.Channels) == 0 {
		return 0
	}

	return len(b.Channels[0])
}

func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}

	return time.Duration(b.Len()) * time.Second / time.Duration(b.SampleRate)
}

// Peak is the largest absolute sample value across all channels
func (b Buffer) Peak() float64 {
	peak := 0.0
	for _, channel := range b.Channels {
		for _, sample := range channel {
			if abs := math.Abs(float64(sample)); abs > peak {
				peak = abs
			}
		}
	}

	return peak
}

func (b Buffer) Clone() Buffer {
	channels := make([][]float32, len(b.Channels))
	for i, channel := range b.Channels {
		channels[i] = append([]float32(nil), channel...)
	}

	return Buffer{
		SampleRate: b.SampleRate,
		Channels:   channels,
	}
}

// SameShape reports whether both buffers have identical channel counts and lengths
func (b Buffer) SameShape(other Buffer) bool {
	return b.ChannelCount() == other.ChannelCount() && b.Len() == other.Len()
}
