package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/rabbitmq"
)

const (
	CompletedType = "extraction_completed"
	FailedType    = "extraction_failed"
)

type Source string

const (
	UploadSource Source = "upload"
	URLSource    Source = "url"
)

type Message struct {
	JobID      string   `json:"job_id"`
	Source     Source   `json:"source"`
	SourceURL  string   `json:"source_url,omitempty"`
	DurationMS int64    `json:"duration_ms"`
	SampleRate int      `json:"sample_rate,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	ArchiveURL string   `json:"archive_url,omitempty"`
	ErrorKind  string   `json:"error_kind,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func Elapsed(since time.Time) int64 {
	return time.Since(since).Milliseconds()
}

// Notifier reports finished jobs. Reporting is best effort and never fails a job.
type Notifier interface {
	Completed(ctx context.Context, msg Message)
	Failed(ctx context.Context, msg Message)
}

var _ Notifier = QueueNotifier{}
var _ Notifier = NoNotifier{}

func NewQueueNotifier(publisher rabbitmq.Publisher) QueueNotifier {
	return QueueNotifier{publisher: publisher}
}

type QueueNotifier struct {
	publisher rabbitmq.Publisher
}

func (q QueueNotifier) Completed(ctx context.Context, msg Message) {
	q.publish(ctx, CompletedType, msg)
}

func (q QueueNotifier) Failed(ctx context.Context, msg Message) {
	q.publish(ctx, FailedType, msg)
}

func (q QueueNotifier) publish(ctx context.Context, msgType string, msg Message) {
	errctx := cerr.Field("job_id", msg.JobID).Field("message_type", msgType)

	body, err := json.Marshal(msg)
	if err != nil {
		cerr.Log(errctx.Wrap(err).Error("Failed to marshal extraction event"))
		return
	}

	// the request may already be gone, the event should still go out
	ctx = context.WithoutCancel(ctx)

	err = q.publisher.Publish(ctx, amqp091.Publishing{
		Type: msgType,
		Body: body,
	})
	if err != nil {
		cerr.Log(errctx.Wrap(err).Error("Failed to publish extraction event"))
		return
	}

	log.WithFields(log.Fields{
		"job_id":       msg.JobID,
		"message_type": msgType,
	}).Debug("Published extraction event")
}

// NoNotifier is used when no message queue is configured
type NoNotifier struct{}

func (NoNotifier) Completed(context.Context, Message) {}
func (NoNotifier) Failed(context.Context, Message)    {}
