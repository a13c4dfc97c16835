package application

import (
	"context"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/extraction/stack"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/worker/internal/jobs/extract"
	"github.com/veedubyou/instrumental-be/src/worker/internal/jobs/job_router"
	"github.com/veedubyou/instrumental-be/src/worker/internal/worker"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	conn   *amqp091.Connection
	stack  *stack.Stack
	worker *worker.QueueWorker
}

type Config struct {
	RabbitMQURL      string
	RequestQueueName string

	Extraction stack.Config
}

func NewApp(config Config) App {
	extractionStack := must(stack.New(config.Extraction))
	consumerConn := must(amqp091.Dial(config.RabbitMQURL))

	return App{
		conn:   consumerConn,
		stack:  extractionStack,
		worker: newWorker(config, consumerConn, extractionStack),
	}
}

func newWorker(config Config, consumerConn *amqp091.Connection, extractionStack *stack.Stack) *worker.QueueWorker {
	router := job_router.NewJobRouter(map[string]worker.MessageHandler{
		extract.JobType: extract.NewJobHandler(extractionStack.Service),
	})

	return must(worker.NewQueueWorkerFromConnection(consumerConn, config.RequestQueueName, router))
}

// Start clears out anything a previous process left behind, then consumes until stopped
func (a *App) Start(ctx context.Context) error {
	result := a.stack.Manager.Sweep()
	log.WithField("removed", len(result.Removed)).Info("Swept working dir on startup")

	if err := a.worker.Start(ctx); err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

// Stop lets the message being handled finish before releasing everything on disk
func (a *App) Stop() error {
	a.worker.Stop()
	<-a.worker.Done()

	err := a.stack.Close()
	if closeErr := a.conn.Close(); closeErr != nil && !errors.Is(closeErr, amqp091.ErrClosed) {
		err = errors.CombineErrors(err, closeErr)
	}

	return err
}
