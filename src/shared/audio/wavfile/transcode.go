package wavfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

func (c Codec) transcodeAndDecode(ctx context.Context, sourcePath string) (audioentity.Buffer, error) {
	if c.ffmpegBinPath == "" {
		return audioentity.Buffer{}, cerr.Error("Input is not a WAV file and no ffmpeg is configured")
	}

	if ctx.Err() != nil {
		return audioentity.Buffer{}, cerr.Wrap(ctx.Err()).Error("Context cancelled before transcoding")
	}

	tempDir, err := os.MkdirTemp(c.tempDir, "transcode-*")
	if err != nil {
		return audioentity.Buffer{}, cerr.Field("temp_dir", c.tempDir).
			Wrap(err).Error("Failed to create temp dir to transcode into")
	}
	defer os.RemoveAll(tempDir)

	destPath := filepath.Join(tempDir, "decoded.wav")
	if err := c.runFFmpeg(sourcePath, destPath); err != nil {
		return audioentity.Buffer{}, err
	}

	buffer, err := decodeFile(destPath)
	if err != nil {
		return audioentity.Buffer{}, cerr.Wrap(err).Error("Failed to decode ffmpeg output")
	}

	return buffer, nil
}

// keeps the source's sample rate and channel layout, only the sample encoding changes
func (c Codec) runFFmpeg(sourcePath string, destPath string) error {
	logger := log.WithFields(log.Fields{
		"sourcePath": sourcePath,
		"destPath":   destPath,
	})

	logger.Info("Running ffmpeg command")

	args := []string{"-nostdin", "-y", "-v", "error", "-i", sourcePath, "-vn", "-acodec", "pcm_f32le", "-f", "wav", destPath}

	errctx := cerr.Field("ffmpeg_bin_path", c.ffmpegBinPath).Field("ffmpeg_args", args)

	cmd := c.executor.Command(c.ffmpegBinPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field("ffmpeg_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running ffmpeg: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished ffmpeg command")

	return nil
}
