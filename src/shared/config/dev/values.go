package dev

import "github.com/veedubyou/instrumental-be/src/shared/config"

// Server
const (
	Port = ":5000"
)

// the frontend dev server
var CORSAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// RabbitMQ
const (
	RabbitMQHost      = "amqp://localhost:5672"
	RabbitMQQueueName = "instrumental-events-dev"
	RequestQueueName  = "instrumental-requests-dev"
)

var RabbitMQConfig = config.RabbitMQ{
	URL:       RabbitMQHost,
	QueueName: RabbitMQQueueName,
}

// Extraction
const (
	MaxConcurrentJobs         = 2
	MaxConcurrentSeparations  = 1
	SmallOutputThresholdBytes = 1000
	MaxUploadBytes            = 200 * 1024 * 1024
	DemucsModel               = "htdemucs"
	DemucsDevice              = "cpu"
)
