package mix

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors/domains"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

var MisalignedStemsMark = domains.New("misaligned_stems")

type Result struct {
	Buffer audioentity.Buffer
	// Peak is the absolute peak of the summed stems before normalization
	Peak   float64
	Silent bool
}

// MixNonVocal sums every non vocal stem and peak normalizes the sum
func MixNonVocal(stems audioentity.StemSet) (Result, error) {
	summed, err := Sum(stems)
	if err != nil {
		return Result{}, err
	}

	return PeakNormalize(summed), nil
}

// Sum adds the non vocal stems sample by sample, in category order.
// Stems that disagree on channel count or length are an error, never truncated or padded.
func Sum(stems audioentity.StemSet) (audioentity.Buffer, error) {
	var (
		summed    [][]float64
		reference audioentity.Category
		shapeErr  error
		sampleLen int
	)

	stems.Each(func(category audioentity.Category, stem audioentity.Buffer) {
		if category.IsVocal() || shapeErr != nil {
			return
		}

		if summed == nil {
			reference = category
			sampleLen = stem.Len()
			summed = make([][]float64, stem.ChannelCount())
			for i := range summed {
				summed[i] = make([]float64, sampleLen)
			}
		}

		if stem.ChannelCount() != len(summed) || stem.Len() != sampleLen {
			err := cerr.Fields(cerr.F{
				"reference_category": reference,
				"reference_channels": len(summed),
				"reference_length":   sampleLen,
				"category":           category,
				"channels":           stem.ChannelCount(),
				"length":             stem.Len(),
			}).Error("Stem shape does not match the other stems")
			shapeErr = mark.Wrap(err, MisalignedStemsMark, "Cannot sum misaligned stems")
			return
		}

		for c, channel := range stem.Channels {
			accumulated := summed[c]
			for i, sample := range channel {
				accumulated[i] += float64(sample)
			}
		}
	})

	if shapeErr != nil {
		return audioentity.Buffer{}, shapeErr
	}

	if summed == nil {
		return audioentity.Buffer{}, cerr.Error("Stem set has no non vocal stems")
	}

	channels := make([][]float32, len(summed))
	for c, accumulated := range summed {
		channel := make([]float32, len(accumulated))
		for i, sample := range accumulated {
			channel[i] = float32(sample)
		}
		channels[c] = channel
	}

	return audioentity.Buffer{
		SampleRate: stems.SampleRate(),
		Channels:   channels,
	}, nil
}

// PeakNormalize scales the buffer so its absolute peak is 1.0.
// A silent buffer comes back unchanged and flagged, it is not an error.
func PeakNormalize(buffer audioentity.Buffer) Result {
	peak := buffer.Peak()

	log.WithFields(log.Fields{
		"peak":     peak,
		"channels": buffer.ChannelCount(),
		"samples":  buffer.Len(),
	}).Debug("Peak of the non vocal mix before normalization")

	if peak == 0 {
		return Result{
			Buffer: buffer,
			Peak:   0,
			Silent: true,
		}
	}

	normalized := make([][]float32, buffer.ChannelCount())
	for c, channel := range buffer.Channels {
		scaled := make([]float32, len(channel))
		for i, sample := range channel {
			scaled[i] = float32(float64(sample) / peak)
		}
		normalized[c] = scaled
	}

	return Result{
		Buffer: audioentity.Buffer{
			SampleRate: buffer.SampleRate,
			Channels:   normalized,
		},
		Peak:   peak,
		Silent: false,
	}
}
