package main

import (
	"context"
	"fmt"
	"os"

	"github.com/veedubyou/instrumental-be/src/shared/config/dev"
	"github.com/veedubyou/instrumental-be/src/shared/config/envvar"
	"github.com/veedubyou/instrumental-be/src/shared/lib/rabbitmq"
	"github.com/veedubyou/instrumental-be/src/worker/internal/jobs/extract"
)

// queues one link for a locally running worker
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sender <url>")
		os.Exit(1)
	}

	rabbitURL := envvar.GetOr(envvar.RABBITMQ_URL, dev.RabbitMQHost)
	queueName := envvar.GetOr(envvar.EXTRACTION_REQUEST_QUEUE_NAME, dev.RequestQueueName)

	publisher, err := rabbitmq.NewQueuePublisher(rabbitURL, queueName)
	if err != nil {
		panic(err)
	}
	defer publisher.Close()

	job, err := extract.NewJobMessage(os.Args[1])
	if err != nil {
		panic(err)
	}

	if err := publisher.Publish(context.Background(), job); err != nil {
		panic(err)
	}
}
