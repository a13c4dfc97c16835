package dummy

import (
	"context"
	"sync"

	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/lib/rabbitmq"
)

var _ rabbitmq.Publisher = &RabbitMQ{}
var _ amqp091.Acknowledger = RabbitMQAcknowledger{}

// RabbitMQ loops published messages straight back out to its consumer
type RabbitMQ struct {
	Unavailable    bool
	MessageChannel chan amqp091.Delivery

	lock        sync.Mutex
	ackCounter  int
	nackCounter int
	cancelled   bool
	closed      bool
}

type RabbitMQAcknowledger struct {
	ack  func() error
	nack func() error
}

func NewRabbitMQ() *RabbitMQ {
	return &RabbitMQ{
		Unavailable:    false,
		MessageChannel: make(chan amqp091.Delivery, 100),
	}
}

func (r *RabbitMQ) AckCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.ackCounter
}

func (r *RabbitMQ) NackCount() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.nackCounter
}

func (r *RabbitMQ) Closed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.closed
}

// settle counts an ack or nack, which a real broker only accepts while the channel is open
func (r *RabbitMQ) settle(counter *int) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return amqp091.ErrClosed
	}

	*counter++
	return nil
}

func (r *RabbitMQ) Publish(_ context.Context, msg amqp091.Publishing) error {
	if r.Unavailable {
		return NetworkFailure
	}

	acknowledger := RabbitMQAcknowledger{
		ack: func() error {
			return r.settle(&r.ackCounter)
		},
		nack: func() error {
			return r.settle(&r.nackCounter)
		},
	}

	r.MessageChannel <- amqp091.Delivery{
		Acknowledger:    acknowledger,
		ContentType:     msg.ContentType,
		ContentEncoding: msg.ContentEncoding,
		DeliveryMode:    msg.DeliveryMode,
		Timestamp:       msg.Timestamp,
		Type:            msg.Type,
		Body:            msg.Body,
	}
	return nil
}

func (r *RabbitMQ) Consume(_ string, _ string, _ bool, _ bool, _ bool, _ bool, _ amqp091.Table) (<-chan amqp091.Delivery, error) {
	if r.Unavailable {
		return nil, NetworkFailure
	}

	return r.MessageChannel, nil
}

// Cancel ends the consumer's stream, deliveries handed out already can still be acked
func (r *RabbitMQ) Cancel(_ string, _ bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.endStream()
	return nil
}

// Close ends the consumer's stream, like a real channel going away
func (r *RabbitMQ) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.endStream()
	r.closed = true
	return nil
}

func (r *RabbitMQ) endStream() {
	if !r.cancelled {
		close(r.MessageChannel)
		r.cancelled = true
	}
}

func (r RabbitMQAcknowledger) Ack(_ uint64, _ bool) error {
	return r.ack()
}

func (r RabbitMQAcknowledger) Nack(_ uint64, _ bool, _ bool) error {
	return r.nack()
}

func (r RabbitMQAcknowledger) Reject(_ uint64, _ bool) error {
	return r.nack()
}
