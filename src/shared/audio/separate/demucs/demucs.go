package demucs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate"
	"github.com/veedubyou/instrumental-be/src/shared/executor"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/working_dir"
)

const (
	DefaultModel  = "htdemucs"
	DefaultDevice = "cpu"
)

var _ separate.Backend = Backend{}

type AudioFile interface {
	Read(ctx context.Context, path string) (audioentity.Buffer, error)
	Write(path string, buffer audioentity.Buffer) (int64, error)
}

type Config struct {
	BinPath string
	Model   string
	Device  string
}

func NewBackend(config Config, workingDir working_dir.WorkingDir, audioFile AudioFile, executor executor.Executor) Backend {
	if config.Model == "" {
		config.Model = DefaultModel
	}

	if config.Device == "" {
		config.Device = DefaultDevice
	}

	return Backend{
		config:     config,
		workingDir: workingDir,
		audioFile:  audioFile,
		executor:   executor,
	}
}

// Backend runs the demucs command line on a staged copy of the model rate input
// and reads the stems it produces back in.
type Backend struct {
	config     Config
	workingDir working_dir.WorkingDir
	audioFile  AudioFile
	executor   executor.Executor
}

// Init makes sure the demucs binary can actually be run
func (b Backend) Init(_ context.Context) error {
	errctx := cerr.Field("demucs_bin_path", b.config.BinPath)

	cmd := b.executor.Command(b.config.BinPath, "--help")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field("demucs_output", string(output)).
			Wrap(err).Error("Demucs is not runnable")
	}

	return nil
}

func (b Backend) Close() error {
	return nil
}

// Separate hands demucs stereo pairs, which is the only layout the model takes.
// A mono input is duplicated into both sides and its stems are averaged back down.
// Inputs with more channels are separated one pair at a time, with an odd last
// channel treated like a mono input, and the stems are put back in channel order.
func (b Backend) Separate(ctx context.Context, buffer audioentity.Buffer) (map[audioentity.Category]audioentity.Buffer, error) {
	groups := pairChannels(buffer)
	groupStems := make([]map[audioentity.Category]audioentity.Buffer, 0, len(groups))

	for i, group := range groups {
		stems, err := b.separateStereo(ctx, group.stereo(buffer))
		if err != nil {
			return nil, cerr.Fields(cerr.F{
				"channel_group": i,
				"group_count":   len(groups),
			}).Wrap(err).Error("Failed to separate channel group")
		}

		groupStems = append(groupStems, stems)
	}

	return joinGroups(groups, groupStems), nil
}

func (b Backend) separateStereo(ctx context.Context, buffer audioentity.Buffer) (map[audioentity.Category]audioentity.Buffer, error) {
	tempDir, err := os.MkdirTemp(b.workingDir.TempDir(), "separate-*")
	if err != nil {
		return nil, cerr.Field("temp_dir", b.workingDir.TempDir()).
			Wrap(err).Error("Failed to create temp dir for separation")
	}
	defer os.RemoveAll(tempDir)

	inputPath := filepath.Join(tempDir, "input.wav")
	if _, err := b.audioFile.Write(inputPath, buffer); err != nil {
		return nil, cerr.Wrap(err).Error("Failed to stage separation input")
	}

	outputDir := filepath.Join(tempDir, "separated")

	// separating is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return nil, cerr.Wrap(ctx.Err()).Error("Context cancelled before separating could happen")
	}

	if err := b.runDemucs(inputPath, outputDir); err != nil {
		return nil, cerr.Field("output_dir", outputDir).
			Wrap(err).Error("Failed to execute demucs")
	}

	return b.collectStems(ctx, filepath.Join(outputDir, b.config.Model))
}

func (b Backend) runDemucs(sourcePath string, destPath string) error {
	logger := log.WithFields(log.Fields{
		"sourcePath": sourcePath,
		"destPath":   destPath,
		"model":      b.config.Model,
		"device":     b.config.Device,
	})

	logger.Info("Running demucs command")

	args := []string{
		"-n", b.config.Model,
		"-d", b.config.Device,
		"-o", destPath,
		"--float32",
		"--filename", "{stem}.{ext}",
		sourcePath,
	}

	errctx := cerr.Field("demucs_bin_path", b.config.BinPath).Field("demucs_args", args)

	cmd := b.executor.Command(b.config.BinPath, args...)
	cmd.SetDir(b.workingDir.Root())

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field("demucs_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running demucs: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished demucs command")

	return nil
}

func (b Backend) collectStems(ctx context.Context, dir string) (map[audioentity.Category]audioentity.Buffer, error) {
	logger := log.WithFields(log.Fields{
		"dir": dir,
	})

	logger.Info("Reading directory to collect stems")
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cerr.Field("dir", dir).Wrap(err).Error("Error reading output directory")
	}

	stems := map[audioentity.Category]audioentity.Buffer{}

	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}

		fileName := dirEntry.Name()
		stemName := strings.TrimSuffix(fileName, filepath.Ext(fileName))

		category, ok := audioentity.ParseCategory(stemName)
		if !ok {
			return nil, cerr.Field("file_name", fileName).Error("Demucs produced an unexpected stem")
		}

		stem, err := b.audioFile.Read(ctx, filepath.Join(dir, fileName))
		if err != nil {
			return nil, cerr.Field("stem", category).Wrap(err).Error("Failed to read stem")
		}

		stems[category] = stem
	}

	if len(stems) == 0 {
		return nil, cerr.Field("dir", dir).Error("No stems in output directory")
	}

	return stems, nil
}
