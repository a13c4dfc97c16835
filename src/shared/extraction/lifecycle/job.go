package lifecycle

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/gofrs/flock"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

const (
	OutputFileName       = "instrumental.wav"
	defaultStageFileName = "input"
)

// Job is one extraction's claim on the working dir. It is owned by a single request.
type Job struct {
	id       string
	manager  *Manager
	fileLock *flock.Flock

	finishOnce sync.Once
}

func (j *Job) ID() string {
	return j.id
}

func (j *Job) StageDir() string {
	return j.manager.stageDir(j.id)
}

func (j *Job) OutputDir() string {
	return j.manager.outputDir(j.id)
}

func (j *Job) OutputPath() string {
	return filepath.Join(j.OutputDir(), OutputFileName)
}

// StagePath places a client supplied file name inside this job's staging dir.
// Only the base name is kept so that it can't escape the dir.
func (j *Job) StagePath(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		base = defaultStageFileName
	}

	return filepath.Join(j.StageDir(), base)
}

func (j *Job) StageUpload(fileName string, content io.Reader) (path string, err error) {
	path = j.StagePath(fileName)
	errctx := cerr.Field("job_id", j.id).Field("stage_path", path)

	file, err := os.Create(path)
	if err != nil {
		return "", errctx.Wrap(err).Error("Failed to create staged input file")
	}

	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err = io.Copy(file, content); err != nil {
		_ = file.Close()
		return "", errctx.Wrap(err).Error("Failed to write staged input file")
	}

	if err = file.Close(); err != nil {
		return "", errctx.Wrap(err).Error("Failed to close staged input file")
	}

	return path, nil
}

// Complete marks the job finished, successful or not. Its files stay until the next sweep
// so that a response can still stream the output.
func (j *Job) Complete() {
	j.finishOnce.Do(func() {
		j.manager.finish(j.id)
		j.release()
		log.WithField("job_id", j.id).Debug("Job completed")
	})
}

// Reclaim removes everything the job wrote and completes it. Used when the request
// is abandoned before the pipeline is done.
func (j *Job) Reclaim() error {
	err := j.removeFiles()
	j.Complete()

	if err != nil {
		return cerr.Field("job_id", j.id).Wrap(err).Error("Failed to reclaim job files")
	}

	log.WithField("job_id", j.id).Info("Job files reclaimed")
	return nil
}

func (j *Job) removeFiles() error {
	for _, dir := range []string{j.StageDir(), j.OutputDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return cerr.Field("dir", dir).Wrap(err).Error("Failed to remove job directory")
		}
	}

	return nil
}

func (j *Job) release() {
	if err := j.fileLock.Unlock(); err != nil {
		log.WithError(err).WithField("job_id", j.id).Warn("Failed to release job lock")
	}

	_ = os.Remove(j.fileLock.Path())
}
