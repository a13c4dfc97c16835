package extractiongateway

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"

	"github.com/veedubyou/instrumental-be/src/server/internal/errors/api"
	"github.com/veedubyou/instrumental-be/src/server/internal/errors/gateway"
	"github.com/veedubyou/instrumental-be/src/server/internal/extraction/errors"
	"github.com/veedubyou/instrumental-be/src/server/internal/lib/request"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/pipeline"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/service"
)

const (
	UploadField = "file"
	URLField    = "url"

	DownloadName = "instrumental.wav"

	WarningsHeader   = "X-Extraction-Warnings"
	ArchiveURLHeader = "X-Archive-URL"
	JobIDHeader      = "X-Job-ID"
)

// ExposedHeaders need to be readable by the frontend across origins
var ExposedHeaders = []string{
	WarningsHeader,
	ArchiveURLHeader,
	JobIDHeader,
	echo.HeaderContentDisposition,
}

type Extractor interface {
	ExtractFile(ctx context.Context, fileName string, content io.Reader) (service.Outcome, error)
	ExtractURL(ctx context.Context, sourceURL string) (service.Outcome, error)
}

var _ Extractor = service.Service{}

type Gateway struct {
	extractor Extractor
}

func NewGateway(extractor Extractor) Gateway {
	return Gateway{
		extractor: extractor,
	}
}

func (g Gateway) ExtractInstrumental(c echo.Context) error {
	ctx := request.Context(c)

	fileHeader, err := c.FormFile(UploadField)
	if err != nil {
		return gateway.ErrorResponse(c, uploadError(err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		apiErr := api.CommitError(errors.Wrap(err, "Failed to open uploaded file"),
			extractionerrors.MissingFileCode,
			"The uploaded file couldn't be read. Please try uploading it again")
		return gateway.ErrorResponse(c, apiErr)
	}
	defer file.Close()

	outcome, err := g.extractor.ExtractFile(ctx, fileHeader.Filename, file)
	if err != nil {
		apiErr := api.WrapError(extractionError(err), "Failed to extract instrumental from upload")
		return gateway.ErrorResponse(c, apiErr)
	}

	return respondWithInstrumental(c, outcome)
}

func (g Gateway) ExtractFromYoutube(c echo.Context) error {
	ctx := request.Context(c)

	sourceURL := strings.TrimSpace(c.FormValue(URLField))
	if sourceURL == "" {
		apiErr := api.CommitError(errors.New("No URL in the request form"),
			extractionerrors.InvalidURLCode,
			"Please provide a link to extract from")
		return gateway.ErrorResponse(c, apiErr)
	}

	outcome, err := g.extractor.ExtractURL(ctx, sourceURL)
	if err != nil {
		apiErr := api.WrapError(extractionError(err), "Failed to extract instrumental from URL")
		return gateway.ErrorResponse(c, apiErr)
	}

	return respondWithInstrumental(c, outcome)
}

// the job's files are only released after the instrumental has been streamed out
func respondWithInstrumental(c echo.Context, outcome service.Outcome) error {
	defer func() {
		result := outcome.Finish()
		if result.HasErrors() {
			log.WithField("job_id", outcome.JobID).
				WithField("errors", len(result.Errors)).
				Warn("Some finished jobs could not be swept")
		}
	}()

	header := c.Response().Header()
	header.Set(JobIDHeader, outcome.JobID)
	if len(outcome.Warnings) > 0 {
		header.Set(WarningsHeader, joinWarnings(outcome.Warnings))
	}
	if outcome.ArchiveURL != "" {
		header.Set(ArchiveURLHeader, outcome.ArchiveURL)
	}
	header.Set(echo.HeaderContentType, "audio/wav")

	return c.Attachment(outcome.OutputPath, DownloadName)
}

func joinWarnings(warnings []pipeline.Warning) string {
	strs := make([]string, len(warnings))
	for i, warning := range warnings {
		strs[i] = string(warning)
	}

	return strings.Join(strs, ",")
}

func uploadError(err error) *api.Error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge {
		return api.CommitError(err, extractionerrors.UploadTooLargeCode, "The uploaded file is too large")
	}

	return api.CommitError(errors.Wrap(err, "Failed to get uploaded file from form"),
		extractionerrors.MissingFileCode,
		"Please upload an audio file in the file field")
}

func extractionError(err error) *api.Error {
	switch service.KindOf(err) {
	case service.UnreadableAudioKind:
		return api.CommitError(err, extractionerrors.UnreadableAudioCode,
			"The file couldn't be read as audio. Please try a different file")
	case service.InvalidURLKind:
		return api.CommitError(err, extractionerrors.InvalidURLCode,
			"The link provided isn't one that can be downloaded")
	case service.DownloadKind:
		return api.CommitError(err, extractionerrors.DownloadFailedCode,
			"The audio couldn't be downloaded from that link")
	case service.SeparationKind:
		return api.CommitError(err, extractionerrors.SeparationFailedCode,
			"Failed to separate the vocals from the track. Please try again later")
	case service.MisalignedStemsKind:
		return api.CommitError(err, extractionerrors.MisalignedStemsCode,
			"Something went wrong while mixing the instrumental. Please contact the developer")
	case service.InvalidRateKind:
		return api.CommitError(err, extractionerrors.InvalidRateCode,
			"The track's sample rate couldn't be handled. Please contact the developer")
	case service.WriteFailureKind:
		return api.CommitError(err, extractionerrors.WriteFailedCode,
			"The instrumental couldn't be saved. Please try again later")
	case service.CancelledKind:
		return api.CommitError(err, extractionerrors.ExtractionAbandonedCode,
			"The extraction was stopped before it finished")
	default:
		return api.CommitError(err, extractionerrors.ExtractionFailedCode,
			"Failed to extract the instrumental. Please contact the developer")
	}
}
