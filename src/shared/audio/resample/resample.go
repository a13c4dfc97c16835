package resample

import (
	"github.com/cockroachdb/errors/domains"
	"golang.org/x/sync/errgroup"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

var InvalidRateMark = domains.New("invalid_rate")

// Resample converts buffer to targetRate with a band-limited windowed sinc filter.
// Equal rates return the buffer untouched.
func Resample(buffer audioentity.Buffer, targetRate int) (audioentity.Buffer, error) {
	if buffer.SampleRate <= 0 || targetRate <= 0 {
		err := cerr.Field("source_rate", buffer.SampleRate).
			Field("target_rate", targetRate).
			Error("Sample rates must be positive")
		return audioentity.Buffer{}, mark.Wrap(err, InvalidRateMark, "Cannot resample audio")
	}

	if buffer.SampleRate == targetRate {
		return buffer, nil
	}

	filter := newSincFilter(buffer.SampleRate, targetRate)
	outputLength := OutputLength(buffer.Len(), buffer.SampleRate, targetRate)

	channels := make([][]float32, buffer.ChannelCount())

	var group errgroup.Group
	for i, channel := range buffer.Channels {
		i, channel := i, channel
		group.Go(func() error {
			channels[i] = filter.apply(channel, outputLength)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return audioentity.Buffer{}, cerr.Wrap(err).Error("Failed to resample channels")
	}

	return audioentity.Buffer{
		SampleRate: targetRate,
		Channels:   channels,
	}, nil
}

// OutputLength is round(inputLength * targetRate / sourceRate), never less than one
// sample for non-empty input.
func OutputLength(inputLength int, sourceRate int, targetRate int) int {
	if inputLength <= 0 {
		return 0
	}

	numerator := 2*int64(inputLength)*int64(targetRate) + int64(sourceRate)
	length := int(numerator / (2 * int64(sourceRate)))
	if length < 1 {
		return 1
	}

	return length
}
