package artifact

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const GOOGLE_STORAGE_HOST = "https://storage.googleapis.com"

//counterfeiter:generate . FileStore
type FileStore interface {
	WriteFile(ctx context.Context, url string, content io.Reader) error
}

var _ FileStore = GoogleFileStore{}

type GoogleFileStore struct {
	storageClient *storage.Client
}

func NewGoogleFileStore(jsonKey string) (GoogleFileStore, error) {
	googleStorageClient, err := storage.NewClient(context.Background(), option.WithCredentialsJSON([]byte(jsonKey)))
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create Google Cloud Storage client")
	}

	return GoogleFileStore{
		storageClient: googleStorageClient,
	}, nil
}

// WriteFile streams content to the object at fileURL
func (g GoogleFileStore) WriteFile(ctx context.Context, fileURL string, content io.Reader) (err error) {
	errctx := cerr.Field("file_url", fileURL)

	bucket, filePath, err := BucketAndPathFromURL(fileURL)
	if err != nil {
		return errctx.Wrap(err).Error("Couldn't extract file path from URL")
	}

	writer := g.storageClient.Bucket(bucket).Object(filePath).NewWriter(ctx)
	writer.ContentType = "audio/wav"
	defer func() {
		closeErr := writer.Close()
		if err == nil && closeErr != nil {
			err = errctx.Wrap(closeErr).Error("Error occurred when closing the upload stream")
		}
	}()

	if _, err = io.Copy(writer, content); err != nil {
		return errctx.Wrap(err).Error("Error occurred when uploading file")
	}

	return nil
}

func (g GoogleFileStore) Close() error {
	return g.storageClient.Close()
}

func BucketAndPathFromURL(fileURL string) (string, string, error) {
	errctx := cerr.Field("file_url", fileURL)
	if !strings.HasPrefix(fileURL, GOOGLE_STORAGE_HOST+"/") {
		return "", "", errctx.Error("File path given not in the Google cloud storage format")
	}

	bucketAndPath := strings.TrimPrefix(fileURL, GOOGLE_STORAGE_HOST+"/")

	chunks := strings.SplitN(bucketAndPath, "/", 2)
	if len(chunks) != 2 || chunks[0] == "" || chunks[1] == "" {
		return "", "", errctx.Error("File path given not in the Google cloud storage format")
	}

	return chunks[0], chunks[1], nil
}
