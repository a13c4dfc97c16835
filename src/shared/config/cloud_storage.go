package config

import (
	"github.com/veedubyou/instrumental-be/src/shared/config/envvar"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/artifact"
)

type CloudStorage interface {
	GetStorageHost() string
	GetBucket() string
}

var _ CloudStorage = ProdCloudStorage{}

type ProdCloudStorage struct {
	StorageHost string
	SecretKey   string
	BucketName  string
}

func (p ProdCloudStorage) GetStorageHost() string {
	return p.StorageHost
}

func (p ProdCloudStorage) GetBucket() string {
	return p.BucketName
}

// NoCloudStorage disables archiving of finished instrumentals
var _ CloudStorage = NoCloudStorage{}

type NoCloudStorage struct{}

func (NoCloudStorage) GetStorageHost() string {
	return ""
}

func (NoCloudStorage) GetBucket() string {
	return ""
}

// CloudStorageFromEnv only turns archiving on when a bucket is configured
func CloudStorageFromEnv() CloudStorage {
	bucketName := envvar.GetOr(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME, "")
	if bucketName == "" {
		return NoCloudStorage{}
	}

	return ProdCloudStorage{
		StorageHost: artifact.GOOGLE_STORAGE_HOST,
		SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
		BucketName:  bucketName,
	}
}
