package worker

import (
	"context"
	"sync"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

type MessageChannel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	Cancel(consumer string, noWait bool) error
	Close() error
}

//counterfeiter:generate . MessageHandler
type MessageHandler interface {
	HandleMessage(ctx context.Context, message amqp091.Delivery) error
}

// QueueWorker handles one message at a time off a durable queue.
// Failed messages are nacked without being requeued.
type QueueWorker struct {
	channel     MessageChannel
	handler     MessageHandler
	queueName   string
	consumerTag string

	lock      sync.Mutex
	consuming bool
	stopped   bool
	done      chan struct{}
}

func NewQueueWorker(channel MessageChannel, queueName string, handler MessageHandler) *QueueWorker {
	return &QueueWorker{
		channel:     channel,
		queueName:   queueName,
		consumerTag: "instrumental-worker-" + uuid.NewString(),
		handler:     handler,
		done:        make(chan struct{}),
	}
}

func NewQueueWorkerFromConnection(conn *amqp091.Connection, queueName string, handler MessageHandler) (*QueueWorker, error) {
	rabbitChannel, err := conn.Channel()
	if err != nil {
		return nil, cerr.Wrap(err).Error("Failed to get channel")
	}

	queue, err := rabbitChannel.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = rabbitChannel.Close()
		return nil, cerr.Field("queue_name", queueName).Wrap(err).Error("Failed to declare queue")
	}

	// one unacknowledged extraction at a time per worker
	if err := rabbitChannel.Qos(1, 0, false); err != nil {
		_ = rabbitChannel.Close()
		return nil, cerr.Wrap(err).Error("Failed to set channel prefetch")
	}

	return NewQueueWorker(rabbitChannel, queue.Name, handler), nil
}

// Start blocks until the worker is stopped or the channel goes away
func (q *QueueWorker) Start(ctx context.Context) error {
	defer close(q.done)

	log.WithField("queue_name", q.queueName).Info("Starting worker")

	q.lock.Lock()
	if q.stopped {
		q.lock.Unlock()
		return cerr.Error("Worker has been stopped")
	}

	messageStream, err := q.channel.Consume(
		q.queueName,
		q.consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		q.stopped = true
		q.lock.Unlock()
		_ = q.channel.Close()
		return cerr.Field("queue_name", q.queueName).
			Wrap(err).Error("Failed to start consuming from channel")
	}

	q.consuming = true
	q.lock.Unlock()

	for message := range messageStream {
		q.handle(ctx, message)
	}

	// every delivery has been settled, the channel isn't needed anymore
	q.lock.Lock()
	q.stopped = true
	q.lock.Unlock()

	if err := q.channel.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
		cerr.Log(cerr.Wrap(err).Error("Failed to close worker channel"))
	}

	log.Info("Worker stopped")
	return nil
}

func (q *QueueWorker) handle(ctx context.Context, message amqp091.Delivery) {
	logger := log.WithField("message_type", message.Type)
	logger.Info("Handling message")

	err := q.handler.HandleMessage(ctx, message)
	if err != nil {
		err = cerr.Field("message_type", message.Type).
			Wrap(err).Error("Failed to process message")
		cerr.Log(err)

		if err = message.Nack(false, false); err != nil {
			logger.Error("Failed to nack message")
		}
		return
	}

	logger.Info("Successfully processed message")
	if err = message.Ack(false); err != nil {
		logger.Error("Failed to ack message")
	}
}

// Done is closed once Start has returned
func (q *QueueWorker) Done() <-chan struct{} {
	return q.done
}

// Stop cancels consuming. A message being handled still gets acked or nacked
// before Start returns, so wait on Done before tearing anything else down.
func (q *QueueWorker) Stop() {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.stopped {
		return
	}
	q.stopped = true

	if !q.consuming {
		_ = q.channel.Close()
		return
	}

	if err := q.channel.Cancel(q.consumerTag, false); err != nil {
		cerr.Log(cerr.Field("consumer_tag", q.consumerTag).
			Wrap(err).Error("Failed to cancel consumer, closing the channel instead"))
		_ = q.channel.Close()
	}
}
