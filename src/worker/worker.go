package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/config"
	"github.com/veedubyou/instrumental-be/src/shared/config/dev"
	"github.com/veedubyou/instrumental-be/src/shared/config/envvar"
	"github.com/veedubyou/instrumental-be/src/shared/config/local"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/stack"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/env"
	"github.com/veedubyou/instrumental-be/src/shared/lib/logging"
	"github.com/veedubyou/instrumental-be/src/worker/application"
)

func main() {
	environment := env.Get()
	logging.Setup(environment)

	var appConfig application.Config

	switch environment {
	case env.Production:
		appConfig = application.Config{
			RabbitMQURL:      envvar.MustGet(envvar.RABBITMQ_URL),
			RequestQueueName: envvar.MustGet(envvar.EXTRACTION_REQUEST_QUEUE_NAME),
			Extraction: stack.Config{
				WorkingDirPath:            envvar.MustGet(envvar.WORKING_DIR_PATH),
				MaxConcurrentJobs:         1,
				MaxConcurrentSeparations:  1,
				SmallOutputThresholdBytes: int64(envvar.MustGetIntOr(envvar.SMALL_OUTPUT_THRESHOLD_BYTES, dev.SmallOutputThresholdBytes)),
				MaxDownloadBytes:          int64(envvar.MustGetIntOr(envvar.MAX_UPLOAD_BYTES, dev.MaxUploadBytes)),
				Demucs: demucs.Config{
					BinPath: envvar.MustGet(envvar.DEMUCS_BIN_PATH),
					Model:   envvar.GetOr(envvar.DEMUCS_MODEL, demucs.DefaultModel),
					Device:  envvar.GetOr(envvar.DEMUCS_DEVICE, demucs.DefaultDevice),
				},
				FFmpegBinPath:    envvar.MustGet(envvar.FFMPEG_BIN_PATH),
				YoutubeDLBinPath: envvar.MustGet(envvar.YOUTUBEDL_BIN_PATH),
				RabbitMQ: config.RabbitMQ{
					URL:       envvar.MustGet(envvar.RABBITMQ_URL),
					QueueName: envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
				},
				CloudStorage: config.CloudStorageFromEnv(),
			},
		}

	case env.Development:
		appConfig = application.Config{
			RabbitMQURL:      dev.RabbitMQHost,
			RequestQueueName: dev.RequestQueueName,
			Extraction: stack.Config{
				WorkingDirPath:            local.WorkingDir(),
				MaxConcurrentJobs:         1,
				MaxConcurrentSeparations:  1,
				SmallOutputThresholdBytes: dev.SmallOutputThresholdBytes,
				MaxDownloadBytes:          dev.MaxUploadBytes,
				Demucs: demucs.Config{
					BinPath: config.DemucsPath(),
					Model:   dev.DemucsModel,
					Device:  dev.DemucsDevice,
				},
				FFmpegBinPath:    config.FFmpegPath(),
				YoutubeDLBinPath: config.YoutubeDLPath(),
				RabbitMQ:         dev.RabbitMQConfig,
				CloudStorage:     config.CloudStorageFromEnv(),
			},
		}

	default:
		panic("Unexpected environment")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := application.NewApp(appConfig)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := app.Stop(); err != nil {
			cerr.Log(err)
		}
	}()

	if err := app.Start(context.WithoutCancel(ctx)); err != nil {
		panic(err)
	}
}
