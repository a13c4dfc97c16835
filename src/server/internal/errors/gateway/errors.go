package gateway

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veedubyou/instrumental-be/src/server/api_error"
	"github.com/veedubyou/instrumental-be/src/server/internal/errors/api"
	"github.com/veedubyou/instrumental-be/src/server/internal/extraction/errors"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/env"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:                     http.StatusInternalServerError,
	extractionerrors.MissingFileCode:         http.StatusBadRequest,
	extractionerrors.UploadTooLargeCode:      http.StatusRequestEntityTooLarge,
	extractionerrors.UnreadableAudioCode:     http.StatusBadRequest,
	extractionerrors.InvalidURLCode:          http.StatusBadRequest,
	extractionerrors.DownloadFailedCode:      http.StatusBadGateway,
	extractionerrors.SeparationFailedCode:    http.StatusInternalServerError,
	extractionerrors.MisalignedStemsCode:     http.StatusInternalServerError,
	extractionerrors.InvalidRateCode:         http.StatusInternalServerError,
	extractionerrors.WriteFailedCode:         http.StatusInternalServerError,
	extractionerrors.ExtractionFailedCode:    http.StatusInternalServerError,
	extractionerrors.ExtractionAbandonedCode: http.StatusServiceUnavailable,
}

func StatusCode(code api.ErrorCode) (int, bool) {
	statusCode, ok := httpStatusCodeMap[code]
	return statusCode, ok
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	if statusCode >= http.StatusInternalServerError {
		cerr.Log(err)
	}

	body := api_error.JSONAPIError{
		Code: string(err.ErrorCode),
		Msg:  err.UserMessage,
	}
	if env.Get() != env.Production {
		body.ErrorDetails = err.Error()
	}

	return c.JSON(statusCode, body)
}
