package service

import (
	"context"
	"io"
	"time"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/download"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/artifact"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/events"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/lifecycle"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/pipeline"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/workerpool"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const ArchiveFailedWarning pipeline.Warning = "archive_failed"

//counterfeiter:generate . Extractor
type Extractor interface {
	Extract(ctx context.Context, job pipeline.Job) (pipeline.Result, error)
}

var _ Extractor = pipeline.Pipeline{}

type Service struct {
	manager    *lifecycle.Manager
	pool       *workerpool.Pool
	extractor  Extractor
	downloader download.Downloader
	archiver   artifact.Archiver
	notifier   events.Notifier
}

func NewService(
	manager *lifecycle.Manager,
	pool *workerpool.Pool,
	extractor Extractor,
	downloader download.Downloader,
	archiver artifact.Archiver,
	notifier events.Notifier,
) Service {
	return Service{
		manager:    manager,
		pool:       pool,
		extractor:  extractor,
		downloader: downloader,
		archiver:   archiver,
		notifier:   notifier,
	}
}

// Outcome is a successful extraction. Its output stays on disk until Finish is called.
type Outcome struct {
	JobID      string
	OutputPath string
	SampleRate int
	Duration   time.Duration
	Warnings   []pipeline.Warning
	ArchiveURL string

	job     *lifecycle.Job
	manager *lifecycle.Manager
}

// Finish releases the job once the caller is done with the output, and sweeps
// every job that has finished so far
func (o Outcome) Finish() lifecycle.SweepResult {
	o.job.Complete()
	return o.manager.Sweep()
}

func (s Service) ExtractFile(ctx context.Context, fileName string, content io.Reader) (Outcome, error) {
	started := time.Now()
	msg := events.Message{Source: events.UploadSource}

	job, err := s.manager.Begin()
	if err != nil {
		return Outcome{}, s.fail(ctx, nil, msg, started, err)
	}
	msg.JobID = job.ID()

	inputPath, err := job.StageUpload(fileName, content)
	if err != nil {
		return Outcome{}, s.fail(ctx, job, msg, started, err)
	}

	return s.extract(ctx, job, inputPath, msg, started)
}

func (s Service) ExtractURL(ctx context.Context, sourceURL string) (Outcome, error) {
	started := time.Now()
	msg := events.Message{Source: events.URLSource, SourceURL: sourceURL}

	// nothing is staged for a URL that can't be downloaded
	if _, err := download.ParseSourceURL(sourceURL); err != nil {
		return Outcome{}, err
	}

	job, err := s.manager.Begin()
	if err != nil {
		return Outcome{}, s.fail(ctx, nil, msg, started, err)
	}
	msg.JobID = job.ID()

	inputPath, err := s.downloader.Download(ctx, sourceURL, job.StageDir(), job.ID())
	if err != nil {
		return Outcome{}, s.fail(ctx, job, msg, started, err)
	}

	return s.extract(ctx, job, inputPath, msg, started)
}

func (s Service) extract(ctx context.Context, job *lifecycle.Job, inputPath string, msg events.Message, started time.Time) (Outcome, error) {
	var result pipeline.Result
	err := s.pool.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.extractor.Extract(ctx, pipeline.Job{
			ID:         job.ID(),
			InputPath:  inputPath,
			OutputDir:  job.OutputDir(),
			OutputName: lifecycle.OutputFileName,
		})
		return err
	})
	if err != nil {
		return Outcome{}, s.fail(ctx, job, msg, started, err)
	}

	outcome := Outcome{
		JobID:      job.ID(),
		OutputPath: result.OutputPath,
		SampleRate: result.SampleRate,
		Duration:   result.Duration,
		Warnings:   append([]pipeline.Warning{}, result.Warnings...),
		job:        job,
		manager:    s.manager,
	}

	if s.archiver.Enabled() {
		archiveURL, err := s.archiver.Archive(ctx, job.ID(), result.OutputPath)
		if err != nil {
			cerr.Log(err)
			outcome.Warnings = append(outcome.Warnings, ArchiveFailedWarning)
		}
		outcome.ArchiveURL = archiveURL
	}

	msg.DurationMS = events.Elapsed(started)
	msg.SampleRate = outcome.SampleRate
	msg.Warnings = warningStrings(outcome.Warnings)
	msg.ArchiveURL = outcome.ArchiveURL
	s.notifier.Completed(ctx, msg)

	log.WithFields(log.Fields{
		"job_id":      job.ID(),
		"duration_ms": msg.DurationMS,
		"warnings":    msg.Warnings,
	}).Info("Extraction job succeeded")

	return outcome, nil
}

// fail discards everything the job staged or wrote. A failed job has nothing worth keeping.
func (s Service) fail(ctx context.Context, job *lifecycle.Job, msg events.Message, started time.Time, err error) error {
	if job != nil {
		if reclaimErr := job.Reclaim(); reclaimErr != nil {
			cerr.Log(reclaimErr)
		}
	}

	msg.DurationMS = events.Elapsed(started)
	msg.ErrorKind = string(KindOf(err))
	msg.Error = err.Error()
	s.notifier.Failed(ctx, msg)

	return err
}

func warningStrings(warnings []pipeline.Warning) []string {
	strs := make([]string, len(warnings))
	for i, warning := range warnings {
		strs[i] = string(warning)
	}

	return strs
}
