package extract

import (
	"context"
	"encoding/json"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/extraction/service"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/worker/internal/worker"
)

const JobType = "extract_url"

type JobParams struct {
	SourceURL string `json:"source_url"`
}

func NewJobMessage(sourceURL string) (amqp091.Publishing, error) {
	body, err := json.Marshal(JobParams{SourceURL: sourceURL})
	if err != nil {
		return amqp091.Publishing{}, cerr.Wrap(err).Error("Failed to marshal extract job")
	}

	return amqp091.Publishing{
		Type:         JobType,
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	}, nil
}

type URLExtractor interface {
	ExtractURL(ctx context.Context, sourceURL string) (service.Outcome, error)
}

var _ URLExtractor = service.Service{}
var _ worker.MessageHandler = JobHandler{}

// JobHandler extracts queued links. The instrumental only outlives the job
// through the archive and the completion event, both of which the service owns.
type JobHandler struct {
	extractor URLExtractor
}

func NewJobHandler(extractor URLExtractor) JobHandler {
	return JobHandler{
		extractor: extractor,
	}
}

func (j JobHandler) HandleMessage(ctx context.Context, message amqp091.Delivery) error {
	params := JobParams{}
	if err := json.Unmarshal(message.Body, &params); err != nil {
		return cerr.Wrap(err).Error("Failed to unmarshal extract job params")
	}

	errctx := cerr.Field("source_url", params.SourceURL)

	outcome, err := j.extractor.ExtractURL(ctx, params.SourceURL)
	if err != nil {
		return errctx.Field("kind", service.KindOf(err)).
			Wrap(err).Error("Failed to extract instrumental")
	}
	defer outcome.Finish()

	log.WithFields(log.Fields{
		"job_id":      outcome.JobID,
		"source_url":  params.SourceURL,
		"archive_url": outcome.ArchiveURL,
		"warnings":    len(outcome.Warnings),
	}).Info("Extracted queued link")

	return nil
}
