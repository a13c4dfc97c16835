package config

// RabbitMQ is optional: a zero value means no extraction events are published
type RabbitMQ struct {
	URL       string
	QueueName string
}

func (r RabbitMQ) Enabled() bool {
	return r.URL != "" && r.QueueName != ""
}
