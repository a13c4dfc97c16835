package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

// Archiver keeps a copy of a finished instrumental somewhere outside the working dir
type Archiver interface {
	Enabled() bool
	Archive(ctx context.Context, jobID string, localPath string) (string, error)
}

var _ Archiver = StoreArchiver{}
var _ Archiver = NoArchiver{}

func NewStoreArchiver(fileStore FileStore, storageHost string, bucketName string) StoreArchiver {
	return StoreArchiver{
		fileStore:   fileStore,
		storageHost: storageHost,
		bucketName:  bucketName,
	}
}

type StoreArchiver struct {
	fileStore   FileStore
	storageHost string
	bucketName  string
}

func (s StoreArchiver) Enabled() bool {
	return true
}

func (s StoreArchiver) ArchiveURL(jobID string, fileName string) string {
	return fmt.Sprintf("%s/%s/instrumentals/%s/%s", s.storageHost, s.bucketName, jobID, fileName)
}

func (s StoreArchiver) Archive(ctx context.Context, jobID string, localPath string) (string, error) {
	archiveURL := s.ArchiveURL(jobID, filepath.Base(localPath))
	errctx := cerr.Field("job_id", jobID).Field("archive_url", archiveURL)

	file, err := os.Open(localPath)
	if err != nil {
		return "", errctx.Field("local_path", localPath).Wrap(err).Error("Failed to open instrumental for archiving")
	}
	defer file.Close()

	log.WithField("archive_url", archiveURL).Info("Archiving instrumental")
	if err := s.fileStore.WriteFile(ctx, archiveURL, file); err != nil {
		return "", errctx.Wrap(err).Error("Failed to archive instrumental")
	}

	return archiveURL, nil
}

// NoArchiver is used when no cloud storage is configured
type NoArchiver struct{}

func (NoArchiver) Enabled() bool {
	return false
}

func (NoArchiver) Archive(context.Context, string, string) (string, error) {
	return "", nil
}
