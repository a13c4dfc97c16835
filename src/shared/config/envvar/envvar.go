package envvar

import (
	"fmt"
	"os"
	"strconv"
)

const (
	ENVIRONMENT                      = "ENVIRONMENT"
	PORT                             = "PORT"
	ALLOWED_FE_ORIGINS               = "ALLOWED_FE_ORIGINS"
	WORKING_DIR_PATH                 = "WORKING_DIR_PATH"
	MAX_CONCURRENT_JOBS              = "MAX_CONCURRENT_JOBS"
	MAX_CONCURRENT_SEPARATIONS       = "MAX_CONCURRENT_SEPARATIONS"
	MAX_UPLOAD_BYTES                 = "MAX_UPLOAD_BYTES"
	SMALL_OUTPUT_THRESHOLD_BYTES     = "SMALL_OUTPUT_THRESHOLD_BYTES"
	DEMUCS_BIN_PATH                  = "DEMUCS_BIN_PATH"
	DEMUCS_MODEL                     = "DEMUCS_MODEL"
	DEMUCS_DEVICE                    = "DEMUCS_DEVICE"
	FFMPEG_BIN_PATH                  = "FFMPEG_BIN_PATH"
	YOUTUBEDL_BIN_PATH               = "YOUTUBEDL_BIN_PATH"
	RABBITMQ_URL                     = "RABBITMQ_URL"
	RABBITMQ_QUEUE_NAME              = "RABBITMQ_QUEUE_NAME"
	EXTRACTION_REQUEST_QUEUE_NAME    = "EXTRACTION_REQUEST_QUEUE_NAME"
	GOOGLE_CLOUD_KEY                 = "GOOGLE_CLOUD_KEY"
	GOOGLE_CLOUD_STORAGE_BUCKET_NAME = "GOOGLE_CLOUD_STORAGE_BUCKET_NAME"
)

func MustGet(key string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	if val == "" {
		panic(fmt.Sprintf("Env variable is empty for key %s", key))
	}

	return val
}

func GetOr(key string, fallback string) string {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return fallback
	}

	return val
}

func MustGetIntOr(key string, fallback int) int {
	val, isSet := os.LookupEnv(key)
	if !isSet || val == "" {
		return fallback
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		panic(fmt.Sprintf("Env variable %s is not an integer: %s", key, val))
	}

	return intVal
}
