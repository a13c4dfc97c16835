package wavfile

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/executor"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

var (
	UnreadableAudioMark = domains.New("unreadable_audio")
	WriteFailureMark    = domains.New("write_failure")
)

const (
	pcmFormat   = 1
	floatFormat = 3

	floatBitDepth = 32
)

var errNotNative = errors.New("not a WAV layout that can be decoded natively")

// Codec reads audio files into buffers and writes buffers out as 32 bit float WAV.
// Anything that isn't plain PCM or float WAV is converted with ffmpeg first.
type Codec struct {
	ffmpegBinPath string
	executor      executor.Executor
	tempDir       string
}

func NewCodec(ffmpegBinPath string, executor executor.Executor, tempDir string) Codec {
	return Codec{
		ffmpegBinPath: ffmpegBinPath,
		executor:      executor,
		tempDir:       tempDir,
	}
}

func (c Codec) Read(ctx context.Context, path string) (audioentity.Buffer, error) {
	errctx := cerr.Field("input_path", path)

	buffer, err := decodeFile(path)
	switch {
	case err == nil:
		return buffer, nil

	case errors.Is(err, errNotNative):
		log.WithField("input_path", path).Info("Input is not a native WAV, transcoding with ffmpeg")

	default:
		return audioentity.Buffer{}, mark.Wrap(errctx.Wrap(err).Error("Failed to decode WAV"),
			UnreadableAudioMark, "Input audio is unreadable")
	}

	buffer, err = c.transcodeAndDecode(ctx, path)
	if err != nil {
		return audioentity.Buffer{}, mark.Wrap(errctx.Wrap(err).Error("Failed to transcode input"),
			UnreadableAudioMark, "Input audio is unreadable")
	}

	return buffer, nil
}

func decodeFile(path string) (audioentity.Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return audioentity.Buffer{}, cerr.Wrap(err).Error("Failed to open audio file")
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return audioentity.Buffer{}, errNotNative
	}

	format := int(decoder.WavAudioFormat)
	bitDepth := int(decoder.BitDepth)
	channelCount := int(decoder.NumChans)

	errctx := cerr.Fields(cerr.F{
		"wav_format":   format,
		"bit_depth":    bitDepth,
		"channels":     channelCount,
		"sample_rate":  decoder.SampleRate,
		"decoder_path": path,
	})

	toFloat, ok := sampleConverter(format, bitDepth)
	if !ok {
		return audioentity.Buffer{}, errNotNative
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return audioentity.Buffer{}, errctx.Wrap(err).Error("Failed to read PCM data")
	}

	frames := len(pcm.Data) / channelCount
	channels := make([][]float32, channelCount)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}

	for frame := 0; frame < frames; frame++ {
		for c := 0; c < channelCount; c++ {
			channels[c][frame] = toFloat(pcm.Data[frame*channelCount+c])
		}
	}

	buffer, err := audioentity.NewBuffer(int(decoder.SampleRate), channels)
	if err != nil {
		return audioentity.Buffer{}, errctx.Wrap(err).Error("Decoded audio is not usable")
	}

	return buffer, nil
}

func sampleConverter(format int, bitDepth int) (func(int) float32, bool) {
	switch {
	case format == floatFormat && bitDepth == floatBitDepth:
		return func(sample int) float32 {
			return math.Float32frombits(uint32(sample))
		}, true

	case format == pcmFormat && bitDepth == 8:
		// 8 bit WAV is unsigned
		return func(sample int) float32 {
			return float32(sample-128) / 128
		}, true

	case format == pcmFormat && (bitDepth == 16 || bitDepth == 24 || bitDepth == 32):
		fullScale := float64(int64(1) << uint(bitDepth-1))
		return func(sample int) float32 {
			return float32(float64(sample) / fullScale)
		}, true

	default:
		return nil, false
	}
}

// Write encodes the buffer as 32 bit float WAV. The file only appears at path once it is
// complete, a failed write leaves nothing behind.
func (c Codec) Write(path string, buffer audioentity.Buffer) (int64, error) {
	size, err := writeFile(path, buffer)
	if err != nil {
		return 0, mark.Wrap(cerr.Field("output_path", path).Wrap(err).Error("Failed to write WAV"),
			WriteFailureMark, "Output audio could not be written")
	}

	return size, nil
}

func writeFile(path string, buffer audioentity.Buffer) (size int64, err error) {
	if err := buffer.Validate(); err != nil {
		return 0, cerr.Wrap(err).Error("Refusing to write an invalid buffer")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return 0, cerr.Field("output_dir", dir).Wrap(err).Error("Failed to create output directory")
	}

	partial, err := os.CreateTemp(dir, "."+filepath.Base(path)+".partial-*")
	if err != nil {
		return 0, cerr.Wrap(err).Error("Failed to create partial output file")
	}

	partialPath := partial.Name()
	defer func() {
		if err != nil {
			_ = partial.Close()
			_ = os.Remove(partialPath)
		}
	}()

	channelCount := buffer.ChannelCount()
	frames := buffer.Len()

	data := make([]int, frames*channelCount)
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channelCount; ch++ {
			data[frame*channelCount+ch] = int(int32(math.Float32bits(buffer.Channels[ch][frame])))
		}
	}

	encoder := wav.NewEncoder(partial, buffer.SampleRate, floatBitDepth, channelCount, floatFormat)
	err = encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channelCount,
			SampleRate:  buffer.SampleRate,
		},
		Data:           data,
		SourceBitDepth: floatBitDepth,
	})
	if err != nil {
		return 0, cerr.Wrap(err).Error("Failed to encode samples")
	}

	if err = encoder.Close(); err != nil {
		return 0, cerr.Wrap(err).Error("Failed to finalize WAV header")
	}

	if err = partial.Close(); err != nil {
		return 0, cerr.Wrap(err).Error("Failed to close partial output file")
	}

	if err = os.Rename(partialPath, path); err != nil {
		return 0, cerr.Field("partial_path", partialPath).Wrap(err).Error("Failed to move output into place")
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, cerr.Wrap(err).Error("Failed to stat written output")
	}

	return info.Size(), nil
}
