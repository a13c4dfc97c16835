package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/config"
	"github.com/veedubyou/instrumental-be/src/shared/config/envvar"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/service"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/stack"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

const DefaultOutputPath = "instrumental.wav"

type extractFlags struct {
	output       string
	workingDir   string
	demucsBin    string
	demucsModel  string
	demucsDevice string
	ffmpegBin    string
	youtubeDLBin string
}

func newExtractCommand(options Options) *cobra.Command {
	flags := extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract <file|url>",
		Short: "Write the instrumental of a local file or a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, options, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", DefaultOutputPath, "Where to write the instrumental")
	cmd.Flags().StringVar(&flags.workingDir, "working-dir", defaultWorkingDir(), "Directory for in progress jobs")
	cmd.Flags().StringVar(&flags.demucsBin, "demucs-bin", "", "Path to demucs, looked up on PATH when empty")
	cmd.Flags().StringVar(&flags.demucsModel, "demucs-model", demucs.DefaultModel, "Demucs model to separate with")
	cmd.Flags().StringVar(&flags.demucsDevice, "demucs-device", demucs.DefaultDevice, "Device demucs runs on")
	cmd.Flags().StringVar(&flags.ffmpegBin, "ffmpeg-bin", "", "Path to ffmpeg, only WAV input is readable without it")
	cmd.Flags().StringVar(&flags.youtubeDLBin, "yt-dlp-bin", "", "Path to yt-dlp, looked up on PATH when empty")

	return cmd
}

func defaultWorkingDir() string {
	return envvar.GetOr(envvar.WORKING_DIR_PATH, filepath.Join(os.TempDir(), "instrumental"))
}

func isURL(input string) bool {
	return strings.Contains(input, "://")
}

func runExtract(cmd *cobra.Command, options Options, flags extractFlags, input string) error {
	stackConfig := stack.Config{
		WorkingDirPath:           flags.workingDir,
		MaxConcurrentJobs:        1,
		MaxConcurrentSeparations: 1,
		Demucs: demucs.Config{
			BinPath: flags.demucsBin,
			Model:   flags.demucsModel,
			Device:  flags.demucsDevice,
		},
		FFmpegBinPath:    flags.ffmpegBin,
		YoutubeDLBinPath: flags.youtubeDLBin,
		CloudStorage:     config.NoCloudStorage{},
		Executors:        options.Executors,
	}

	if stackConfig.Demucs.BinPath == "" {
		stackConfig.Demucs.BinPath = config.DemucsPath()
	}
	if stackConfig.FFmpegBinPath == "" {
		stackConfig.FFmpegBinPath = config.FFmpegPathIfInstalled()
	}
	if stackConfig.YoutubeDLBinPath == "" && isURL(input) {
		stackConfig.YoutubeDLBinPath = config.YoutubeDLPath()
	}

	extractionStack, err := stack.New(stackConfig)
	if err != nil {
		return err
	}
	defer extractionStack.Close()

	outcome, err := extract(cmd.Context(), extractionStack.Service, input)
	if err != nil {
		return errors.Wrapf(err, "Extraction failed (%s)", service.KindOf(err))
	}
	defer outcome.Finish()

	if err := copyFile(outcome.OutputPath, flags.output); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s (%d Hz, %s)\n", flags.output, outcome.SampleRate, outcome.Duration)
	for _, warning := range outcome.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}

	return nil
}

func extract(ctx context.Context, svc service.Service, input string) (service.Outcome, error) {
	if isURL(input) {
		return svc.ExtractURL(ctx, input)
	}

	file, err := os.Open(input)
	if err != nil {
		return service.Outcome{}, cerr.Field("input", input).Wrap(err).Error("Failed to open input")
	}
	defer file.Close()

	return svc.ExtractFile(ctx, filepath.Base(input), file)
}

func copyFile(sourcePath string, destPath string) (err error) {
	errctx := cerr.Field("source_path", sourcePath).Field("dest_path", destPath)

	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return errctx.Wrap(err).Error("Failed to create output directory")
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to open extracted instrumental")
	}
	defer source.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to create output file")
	}
	defer func() {
		if closeErr := dest.Close(); closeErr != nil && err == nil {
			err = errctx.Wrap(closeErr).Error("Failed to close output file")
		}
	}()

	if _, err := io.Copy(dest, source); err != nil {
		return errctx.Wrap(err).Error("Failed to copy instrumental to output")
	}

	return nil
}
