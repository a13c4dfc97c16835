package job_router

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/worker/internal/worker"
)

var _ worker.MessageHandler = JobRouter{}

type JobRouter struct {
	handlers map[string]worker.MessageHandler
}

func NewJobRouter(handlers map[string]worker.MessageHandler) JobRouter {
	return JobRouter{
		handlers: handlers,
	}
}

func (j JobRouter) HandleMessage(ctx context.Context, message amqp091.Delivery) error {
	handler, ok := j.handlers[message.Type]
	if !ok {
		return cerr.Field("message_type", message.Type).Error("No handler for message type")
	}

	return handler.HandleMessage(ctx, message)
}
