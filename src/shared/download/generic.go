package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

var _ Downloader = GenericDLer{}

const (
	defaultExtension = ".audio"

	DefaultFetchTimeout = 10 * time.Minute
	DefaultMaxBytes     = 200 * 1024 * 1024
)

// NewGenericDLer fetches with client, or with a client that gives up after
// DefaultFetchTimeout when client is nil. Bodies over maxBytes are refused.
func NewGenericDLer(client *http.Client, maxBytes int64) GenericDLer {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return GenericDLer{
		client:   client,
		maxBytes: maxBytes,
	}
}

// GenericDLer fetches a direct link to an audio file
type GenericDLer struct {
	client   *http.Client
	maxBytes int64
}

func (g GenericDLer) Download(ctx context.Context, sourceURL string, destDir string, name string) (string, error) {
	errctx := cerr.Field("source_url", sourceURL).Field("dest_dir", destDir)

	outPath, err := g.download(ctx, sourceURL, destDir, name)
	if err != nil {
		removeMatching(destDir, name)
		return "", mark.Wrap(errctx.Wrap(err).Error("Failed to fetch file"), DownloadMark, "Failed to download audio")
	}

	return outPath, nil
}

func (g GenericDLer) download(ctx context.Context, sourceURL string, destDir string, name string) (string, error) {
	log.WithField("source_url", sourceURL).Info("Running generic-dl")

	parsed, err := ParseSourceURL(sourceURL)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to build request")
	}

	resp, err := g.client.Do(request)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to fetch file from provided source")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", cerr.Field("status_code", resp.StatusCode).Error("Source responded with a non success status")
	}

	if resp.ContentLength > g.maxBytes {
		return "", cerr.Fields(cerr.F{
			"content_length": resp.ContentLength,
			"max_bytes":      g.maxBytes,
		}).Error("Source file is too large")
	}

	extension := path.Ext(parsed.Path)
	if extension == "" {
		extension = defaultExtension
	}

	outPath := filepath.Join(destDir, name+extension)
	out, err := os.Create(outPath)
	if err != nil {
		return "", cerr.Field("out_path", outPath).Wrap(err).Error("Failed to create temp file")
	}
	defer out.Close()

	// one byte past the limit is enough to tell the body is too large
	written, err := io.Copy(out, io.LimitReader(resp.Body, g.maxBytes+1))
	if err != nil {
		return "", cerr.Field("out_path", outPath).Wrap(err).Error("Failed to write song contents out to file")
	}

	if written > g.maxBytes {
		return "", cerr.Field("max_bytes", g.maxBytes).Error("Source file is too large")
	}

	if written == 0 {
		return "", cerr.Field("out_path", outPath).Error("Source responded with an empty body")
	}

	if err := out.Close(); err != nil {
		return "", cerr.Field("out_path", outPath).Wrap(err).Error("Failed to close downloaded file")
	}

	return outPath, nil
}
