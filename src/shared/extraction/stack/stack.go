package stack

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors"

	"github.com/veedubyou/instrumental-be/src/shared/audio/separate"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
	"github.com/veedubyou/instrumental-be/src/shared/config"
	"github.com/veedubyou/instrumental-be/src/shared/download"
	"github.com/veedubyou/instrumental-be/src/shared/executor"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/artifact"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/events"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/lifecycle"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/pipeline"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/service"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/workerpool"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/rabbitmq"
	"github.com/veedubyou/instrumental-be/src/shared/lib/working_dir"
)

type Config struct {
	WorkingDirPath            string
	MaxConcurrentJobs         int
	MaxConcurrentSeparations  int
	SmallOutputThresholdBytes int64
	// MaxDownloadBytes caps links fetched directly, zero means download.DefaultMaxBytes
	MaxDownloadBytes int64

	Demucs           demucs.Config
	FFmpegBinPath    string
	YoutubeDLBinPath string

	RabbitMQ     config.RabbitMQ
	CloudStorage config.CloudStorage

	Executors Executors
}

// Executors run the external binaries. Any left nil run the real thing.
type Executors struct {
	Demucs    executor.Executor
	FFmpeg    executor.Executor
	YoutubeDL executor.Executor
}

func (e Executors) withDefaults() Executors {
	if e.Demucs == nil {
		e.Demucs = executor.BinaryFileExecutor{}
	}
	if e.FFmpeg == nil {
		e.FFmpeg = executor.BinaryFileExecutor{}
	}
	if e.YoutubeDL == nil {
		e.YoutubeDL = executor.BinaryFileExecutor{}
	}

	return e
}

// Stack is every long lived piece an extraction process needs, built once at startup
type Stack struct {
	Service service.Service
	Manager *lifecycle.Manager
	Pool    *workerpool.Pool

	closers []func() error
}

func New(stackConfig Config) (*Stack, error) {
	workingDir, err := working_dir.NewWorkingDir(stackConfig.WorkingDirPath)
	if err != nil {
		return nil, err
	}

	executors := stackConfig.Executors.withDefaults()
	s := &Stack{
		Manager: lifecycle.NewManager(workingDir),
		Pool:    workerpool.NewPool(stackConfig.MaxConcurrentJobs),
	}

	codec := wavfile.NewCodec(stackConfig.FFmpegBinPath, executors.FFmpeg, workingDir.TempDir())
	backend := demucs.NewBackend(stackConfig.Demucs, workingDir, codec, executors.Demucs)
	adapter := separate.NewAdapter(backend, stackConfig.MaxConcurrentSeparations)
	s.closers = append(s.closers, adapter.Close)

	threshold := stackConfig.SmallOutputThresholdBytes
	if threshold <= 0 {
		threshold = pipeline.DefaultSmallOutputThreshold
	}
	extractor := pipeline.NewPipeline(codec, adapter, threshold)

	downloader := download.NewSelectDLer(
		download.NewYoutubeDLer(stackConfig.YoutubeDLBinPath, executors.YoutubeDL),
		download.NewGenericDLer(nil, stackConfig.MaxDownloadBytes),
	)

	notifier, err := s.newNotifier(stackConfig.RabbitMQ)
	if err != nil {
		return nil, errors.CombineErrors(err, s.Close())
	}

	archiver, err := s.newArchiver(stackConfig.CloudStorage)
	if err != nil {
		return nil, errors.CombineErrors(err, s.Close())
	}

	s.Service = service.NewService(s.Manager, s.Pool, extractor, downloader, archiver, notifier)
	return s, nil
}

func (s *Stack) newNotifier(rabbitMQConfig config.RabbitMQ) (events.Notifier, error) {
	if !rabbitMQConfig.Enabled() {
		log.Info("No RabbitMQ configured, extraction events won't be published")
		return events.NoNotifier{}, nil
	}

	publisher, err := rabbitmq.NewQueuePublisher(rabbitMQConfig.URL, rabbitMQConfig.QueueName)
	if err != nil {
		return nil, err
	}

	s.closers = append(s.closers, publisher.Close)
	return events.NewQueueNotifier(publisher), nil
}

func (s *Stack) newArchiver(cloudStorageConfig config.CloudStorage) (artifact.Archiver, error) {
	switch t := cloudStorageConfig.(type) {
	case config.ProdCloudStorage:
		store, err := artifact.NewGoogleFileStore(t.SecretKey)
		if err != nil {
			return nil, err
		}

		s.closers = append(s.closers, store.Close)
		return artifact.NewStoreArchiver(store, t.StorageHost, t.BucketName), nil

	case config.NoCloudStorage, nil:
		return artifact.NoArchiver{}, nil

	default:
		panic("Unrecognized cloud storage config")
	}
}

// Close tears down the collaborators and then reclaims every job left on disk.
// Nothing should begin new jobs once Close is called.
func (s *Stack) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = errors.CombineErrors(err, s.closers[i]())
	}
	s.closers = nil

	result := s.Manager.Shutdown()
	if result.HasErrors() {
		err = errors.CombineErrors(err, cerr.Field("errors", len(result.Errors)).
			Error("Failed to clean up some jobs on shutdown"))
	}

	return err
}
