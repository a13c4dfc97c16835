package download

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors/domains"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var (
	DownloadMark   = domains.New("download_failure")
	InvalidURLMark = domains.New("invalid_url")
)

// Downloader saves the audio behind sourceURL into destDir. The returned path is
// always a complete file named after name, nothing is returned on failure.
//
//counterfeiter:generate . Downloader
type Downloader interface {
	Download(ctx context.Context, sourceURL string, destDir string, name string) (string, error)
}

func ParseSourceURL(sourceURL string) (*url.URL, error) {
	errctx := cerr.Field("source_url", sourceURL)

	parsed, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil {
		return nil, mark.Wrap(errctx.Wrap(err).Error("Failed to parse source URL"), InvalidURLMark, "Source URL is invalid")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, mark.Wrap(errctx.Field("scheme", parsed.Scheme).Error("Unsupported URL scheme"), InvalidURLMark, "Source URL is invalid")
	}

	if parsed.Host == "" {
		return nil, mark.Wrap(errctx.Error("URL has no host"), InvalidURLMark, "Source URL is invalid")
	}

	return parsed, nil
}

// removeMatching deletes everything in dir that was produced for name
func removeMatching(dir string, name string) {
	matches, err := filepath.Glob(filepath.Join(dir, name+"*"))
	if err != nil {
		return
	}

	for _, match := range matches {
		_ = os.RemoveAll(match)
	}
}
