package rabbitmq

import (
	"context"
	"sync"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var _ Publisher = &QueuePublisher{}

//counterfeiter:generate . Publisher
type Publisher interface {
	Publish(ctx context.Context, msg amqp091.Publishing) error
}

// QueuePublisher sends persistent JSON messages to one durable queue.
// It is shared by concurrent jobs, so the channel is only touched under lock.
type QueuePublisher struct {
	rabbitMQURL string
	queueName   string

	lock    sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewQueuePublisher(rabbitMQURL string, queueName string) (*QueuePublisher, error) {
	publisher := &QueuePublisher{
		rabbitMQURL: rabbitMQURL,
		queueName:   queueName,
	}

	publisher.lock.Lock()
	defer publisher.lock.Unlock()

	if err := publisher.connectChannel(); err != nil {
		return nil, cerr.Field("queue_name", queueName).Wrap(err).Error("Failed to connect to RabbitMQ")
	}

	return publisher, nil
}

func (q *QueuePublisher) connectChannel() error {
	q.closeConnection()

	conn, err := amqp091.Dial(q.rabbitMQURL)
	if err != nil {
		return errors.Wrap(err, "Failed to dial rabbitMQURL")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "Failed to create rabbit channel")
	}

	_, err = channel.QueueDeclare(
		q.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return errors.Wrap(err, "Failed to declare the queue")
	}

	q.conn = conn
	q.channel = channel
	return nil
}

func (q *QueuePublisher) publishOnce(ctx context.Context, msg amqp091.Publishing) error {
	if q.channel == nil {
		return amqp091.ErrClosed
	}

	msg.ContentType = "application/json"
	msg.DeliveryMode = amqp091.Persistent

	return q.channel.PublishWithContext(
		ctx,
		"",
		q.queueName,
		false,
		false,
		msg,
	)
}

// Publish reconnects once if the channel was closed underneath it
func (q *QueuePublisher) Publish(ctx context.Context, msg amqp091.Publishing) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	err := q.publishOnce(ctx, msg)
	if err == nil {
		return nil
	}

	errctx := cerr.Field("queue_name", q.queueName).Field("message_type", msg.Type)
	if !errors.Is(err, amqp091.ErrClosed) {
		return errctx.Wrap(err).Error("Failed to publish message to rabbitMQ channel")
	}

	if reconnectErr := q.connectChannel(); reconnectErr != nil {
		log.WithError(reconnectErr).Error("Unable to reconnect to rabbitMQ channel")
		return errctx.Wrap(err).Error("Failed to publish message to rabbitMQ channel")
	}

	if err := q.publishOnce(ctx, msg); err != nil {
		return errctx.Wrap(err).Error("Failed to publish message after reconnecting")
	}

	return nil
}

func (q *QueuePublisher) Close() error {
	q.lock.Lock()
	defer q.lock.Unlock()

	return q.closeConnection()
}

func (q *QueuePublisher) closeConnection() error {
	conn := q.conn
	q.conn = nil
	q.channel = nil

	if conn == nil || conn.IsClosed() {
		return nil
	}

	return conn.Close()
}
