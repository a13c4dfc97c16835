package download

import (
	"context"
	"strings"
)

var _ Downloader = SelectDLer{}

func NewSelectDLer(youtubeDLer YoutubeDLer, genericDLer GenericDLer) SelectDLer {
	return SelectDLer{
		youtubeDLer: youtubeDLer,
		genericDLer: genericDLer,
	}
}

// SelectDLer sends youtube links to youtube-dl and everything else to a plain fetch
type SelectDLer struct {
	youtubeDLer YoutubeDLer
	genericDLer GenericDLer
}

func (s SelectDLer) Download(ctx context.Context, sourceURL string, destDir string, name string) (string, error) {
	parsed, err := ParseSourceURL(sourceURL)
	if err != nil {
		return "", err
	}

	if IsYoutubeHost(parsed.Hostname()) {
		return s.youtubeDLer.Download(ctx, sourceURL, destDir, name)
	}

	return s.genericDLer.Download(ctx, sourceURL, destDir, name)
}

func IsYoutubeHost(host string) bool {
	host = strings.ToLower(host)
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}
