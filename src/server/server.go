package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/server/application"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/config"
	"github.com/veedubyou/instrumental-be/src/shared/config/dev"
	"github.com/veedubyou/instrumental-be/src/shared/config/envvar"
	"github.com/veedubyou/instrumental-be/src/shared/config/local"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/stack"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/env"
	"github.com/veedubyou/instrumental-be/src/shared/lib/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	environment := env.Get()
	logging.Setup(environment)

	var appConfig application.Config

	switch environment {
	case env.Production:
		commaSeparatedOrigins := envvar.MustGet(envvar.ALLOWED_FE_ORIGINS)
		allowedOrigins := strings.Split(commaSeparatedOrigins, ",")

		appConfig = application.Config{
			Port:               ":" + envvar.GetOr(envvar.PORT, "5000"),
			CORSAllowedOrigins: allowedOrigins,
			Log:                true,
			MaxUploadBytes:     int64(envvar.MustGetIntOr(envvar.MAX_UPLOAD_BYTES, dev.MaxUploadBytes)),
			Extraction: stack.Config{
				WorkingDirPath:            envvar.MustGet(envvar.WORKING_DIR_PATH),
				MaxConcurrentJobs:         envvar.MustGetIntOr(envvar.MAX_CONCURRENT_JOBS, dev.MaxConcurrentJobs),
				MaxConcurrentSeparations:  envvar.MustGetIntOr(envvar.MAX_CONCURRENT_SEPARATIONS, dev.MaxConcurrentSeparations),
				SmallOutputThresholdBytes: int64(envvar.MustGetIntOr(envvar.SMALL_OUTPUT_THRESHOLD_BYTES, dev.SmallOutputThresholdBytes)),
				Demucs: demucs.Config{
					BinPath: envvar.MustGet(envvar.DEMUCS_BIN_PATH),
					Model:   envvar.GetOr(envvar.DEMUCS_MODEL, demucs.DefaultModel),
					Device:  envvar.GetOr(envvar.DEMUCS_DEVICE, demucs.DefaultDevice),
				},
				FFmpegBinPath:    envvar.MustGet(envvar.FFMPEG_BIN_PATH),
				YoutubeDLBinPath: envvar.MustGet(envvar.YOUTUBEDL_BIN_PATH),
				RabbitMQ: config.RabbitMQ{
					URL:       envvar.GetOr(envvar.RABBITMQ_URL, ""),
					QueueName: envvar.GetOr(envvar.RABBITMQ_QUEUE_NAME, ""),
				},
				CloudStorage: config.CloudStorageFromEnv(),
			},
		}

	case env.Development:
		appConfig = application.Config{
			Port:               dev.Port,
			CORSAllowedOrigins: dev.CORSAllowedOrigins,
			Log:                true,
			MaxUploadBytes:     dev.MaxUploadBytes,
			Extraction: stack.Config{
				WorkingDirPath:            local.WorkingDir(),
				MaxConcurrentJobs:         dev.MaxConcurrentJobs,
				MaxConcurrentSeparations:  dev.MaxConcurrentSeparations,
				SmallOutputThresholdBytes: dev.SmallOutputThresholdBytes,
				Demucs: demucs.Config{
					BinPath: config.DemucsPath(),
					Model:   dev.DemucsModel,
					Device:  dev.DemucsDevice,
				},
				FFmpegBinPath:    config.FFmpegPath(),
				YoutubeDLBinPath: config.YoutubeDLPath(),
				RabbitMQ:         dev.RabbitMQConfig,
				CloudStorage:     config.NoCloudStorage{},
			},
		}

	default:
		panic("Unexpected environment")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := application.NewApp(appConfig)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := app.Stop(shutdownCtx); err != nil {
			cerr.Log(err)
		}
	}()

	if err := app.Start(); err != nil {
		panic(err)
	}

	<-stopped
}

