package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors/domains"
	"github.com/cockroachdb/errors/markers"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/audio/mix"
	"github.com/veedubyou/instrumental-be/src/shared/audio/resample"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const (
	DefaultOutputName = "instrumental.wav"

	DefaultSmallOutputThreshold = 1000
)

var PipelineMark = domains.New("pipeline_failure")

// classified errors keep their own mark, anything else is a PipelineMark
var classifiedMarks = []error{
	wavfile.UnreadableAudioMark,
	wavfile.WriteFailureMark,
	resample.InvalidRateMark,
	separate.SeparationMark,
	mix.MisalignedStemsMark,
}

//counterfeiter:generate . AudioFile
type AudioFile interface {
	Read(ctx context.Context, path string) (audioentity.Buffer, error)
	Write(path string, buffer audioentity.Buffer) (int64, error)
}

type Job struct {
	ID         string
	InputPath  string
	OutputDir  string
	OutputName string
}

func (j Job) OutputPath() string {
	name := j.OutputName
	if name == "" {
		name = DefaultOutputName
	}

	return filepath.Join(j.OutputDir, name)
}

type Result struct {
	OutputPath string
	SampleRate int
	Duration   time.Duration
	SizeBytes  int64
	Warnings   []Warning
	States     []State
}

func (r Result) HasWarning(warning Warning) bool {
	for _, w := range r.Warnings {
		if w == warning {
			return true
		}
	}

	return false
}

type Pipeline struct {
	audioFile            AudioFile
	separator            separate.Separator
	smallOutputThreshold int64
}

func NewPipeline(audioFile AudioFile, separator separate.Separator, smallOutputThreshold int64) Pipeline {
	return Pipeline{
		audioFile:            audioFile,
		separator:            separator,
		smallOutputThreshold: smallOutputThreshold,
	}
}

// Extract turns the job's input into an instrumental at the input's own sample rate.
// On failure no file is left at the job's output path.
func (p Pipeline) Extract(ctx context.Context, job Job) (Result, error) {
	r := newRun(job)
	r.logger.Info("Starting extraction")

	input, err := p.audioFile.Read(ctx, job.InputPath)
	if err != nil {
		return r.fail(Loaded, err)
	}
	if err := input.Validate(); err != nil {
		return r.fail(Loaded, mark.Wrap(err, wavfile.UnreadableAudioMark, "Decoded audio is malformed"))
	}

	originalRate := input.SampleRate
	r.logger = r.logger.WithFields(log.Fields{
		"original_rate": originalRate,
		"channels":      input.ChannelCount(),
		"samples":       input.Len(),
	})
	r.transition(Loaded)

	modelInput, err := resample.Resample(input, separate.ModelRate)
	if err != nil {
		return r.fail(ResampledToModel, err)
	}
	r.transition(ResampledToModel)

	if err := r.checkContext(ctx); err != nil {
		return r.fail(Separated, err)
	}

	stems, err := p.separator.Separate(ctx, modelInput)
	if err != nil {
		return r.fail(Separated, err)
	}
	r.transition(Separated)

	summed, err := mix.Sum(stems)
	if err != nil {
		return r.fail(Mixed, err)
	}
	r.transition(Mixed)

	mixed := mix.PeakNormalize(summed)
	if mixed.Silent {
		r.warn(SilentMixWarning, "Non vocal mix is silent, output will be silence")
	}
	r.transition(Normalized)

	output, err := resample.Resample(mixed.Buffer, originalRate)
	if err != nil {
		return r.fail(ResampledToOriginal, err)
	}
	output = fitLength(output, input.Len())
	r.transition(ResampledToOriginal)

	if err := r.checkContext(ctx); err != nil {
		return r.fail(Written, err)
	}

	outputPath := job.OutputPath()
	size, err := p.write(outputPath, output)
	if err != nil {
		return r.fail(Written, err)
	}
	r.transition(Written)

	if size < p.smallOutputThreshold {
		r.logger = r.logger.WithField("size_bytes", size)
		r.warn(SmallOutputWarning, "Output file is implausibly small and may be corrupt")
	}

	r.transition(Done)
	r.logger.WithField("output_path", outputPath).Info("Finished extraction")

	return Result{
		OutputPath: outputPath,
		SampleRate: output.SampleRate,
		Duration:   output.Duration(),
		SizeBytes:  size,
		Warnings:   r.warnings,
		States:     r.states,
	}, nil
}

func (p Pipeline) write(outputPath string, buffer audioentity.Buffer) (int64, error) {
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		err = cerr.Field("output_dir", outputDir).Wrap(err).Error("Failed to create output directory")
		return 0, mark.Wrap(err, wavfile.WriteFailureMark, "Failed to materialize output")
	}

	size, err := p.audioFile.Write(outputPath, buffer)
	if err != nil {
		if removeErr := os.Remove(outputPath); removeErr != nil && !os.IsNotExist(removeErr) {
			log.WithError(removeErr).WithField("output_path", outputPath).Error("Failed to remove output after failed write")
		}
		return 0, err
	}

	return size, nil
}

// fitLength trims or zero pads the final buffer to the input's sample count,
// since a round trip through the model rate can drift by a sample or two
func fitLength(buffer audioentity.Buffer, length int) audioentity.Buffer {
	if buffer.Len() == length {
		return buffer
	}

	channels := make([][]float32, len(buffer.Channels))
	for i, channel := range buffer.Channels {
		fitted := make([]float32, length)
		copy(fitted, channel)
		channels[i] = fitted
	}

	return audioentity.Buffer{
		SampleRate: buffer.SampleRate,
		Channels:   channels,
	}
}

func classify(err error) error {
	for _, classified := range classifiedMarks {
		if markers.Is(err, classified) {
			return err
		}
	}

	return mark.Wrap(err, PipelineMark, "Unexpected extraction failure")
}
