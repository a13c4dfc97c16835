package extractionerrors

import (
	"github.com/veedubyou/instrumental-be/src/server/internal/errors/api"
)

const (
	MissingFileCode         = api.ErrorCode("missing_file")
	UploadTooLargeCode      = api.ErrorCode("upload_too_large")
	UnreadableAudioCode     = api.ErrorCode("unreadable_audio")
	InvalidURLCode          = api.ErrorCode("invalid_url")
	DownloadFailedCode      = api.ErrorCode("download_failed")
	SeparationFailedCode    = api.ErrorCode("separation_failed")
	MisalignedStemsCode     = api.ErrorCode("misaligned_stems")
	InvalidRateCode         = api.ErrorCode("invalid_rate")
	WriteFailedCode         = api.ErrorCode("write_failed")
	ExtractionFailedCode    = api.ErrorCode("extraction_failed")
	ExtractionAbandonedCode = api.ErrorCode("extraction_abandoned")
)
