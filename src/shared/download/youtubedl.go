package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/veedubyou/instrumental-be/src/shared/executor"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

var _ Downloader = YoutubeDLer{}

// files yt-dlp leaves behind while it's still working on a download
var inProgressSuffixes = []string{".part", ".ytdl", ".temp"}

func NewYoutubeDLer(youtubedlBinPath string, commandExecutor executor.Executor) YoutubeDLer {
	return YoutubeDLer{
		youtubedlBinPath: youtubedlBinPath,
		commandExecutor:  commandExecutor,
	}
}

type YoutubeDLer struct {
	youtubedlBinPath string
	commandExecutor  executor.Executor
}

func (y YoutubeDLer) Download(ctx context.Context, sourceURL string, destDir string, name string) (string, error) {
	errctx := cerr.Field("source_url", sourceURL).Field("dest_dir", destDir)

	path, err := y.attempt(ctx, sourceURL, destDir, name)
	// error may be fixable by clearing the cache dir
	// so try again in case that's the issue
	if err != nil {
		if ctx.Err() != nil {
			return "", mark.Wrap(errctx.Wrap(err).Error("Download was abandoned"), DownloadMark, "Failed to download audio")
		}

		y.clearCache()
		path, err = y.attempt(ctx, sourceURL, destDir, name)
	}

	if err != nil {
		return "", mark.Wrap(errctx.Wrap(err).Error("Failed to run youtube-dl"), DownloadMark, "Failed to download audio")
	}

	return path, nil
}

func (y YoutubeDLer) attempt(ctx context.Context, sourceURL string, destDir string, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	err := y.download(sourceURL, filepath.Join(destDir, name+".%(ext)s"))
	if err != nil {
		removeMatching(destDir, name)
		return "", err
	}

	path, err := locate(destDir, name)
	if err != nil {
		removeMatching(destDir, name)
		return "", err
	}

	return path, nil
}

func (y YoutubeDLer) download(sourceURL string, outputTemplate string) error {
	log.WithField("source_url", sourceURL).Info("Running youtube-dl")

	cmd := y.commandExecutor.Command(y.youtubedlBinPath,
		"--no-playlist",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", outputTemplate,
		sourceURL,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return cerr.Field("error_msg", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Failed to run youtube-dl: %s", string(output)))
	}

	return nil
}

func (y YoutubeDLer) clearCache() {
	log.Info("Clearing youtube-dl cache")
	cmd := y.commandExecutor.Command(y.youtubedlBinPath, "--rm-cache-dir")
	output, err := cmd.CombinedOutput()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to clear cache: %s", string(output))
		log.Error(errorMsg)
	}
}

// locate finds the finished file yt-dlp wrote for name, whatever extension it picked
func locate(dir string, name string) (string, error) {
	errctx := cerr.Field("dir", dir).Field("name", name)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errctx.Wrap(err).Error("Failed to list download dir")
	}

	candidates := []string{}
	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(fileName, name+".") || inProgress(fileName) {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			continue
		}

		candidates = append(candidates, fileName)
	}

	if len(candidates) == 0 {
		return "", errctx.Error("youtube-dl exited without producing a file")
	}

	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), nil
}

func inProgress(fileName string) bool {
	for _, suffix := range inProgressSuffixes {
		if strings.HasSuffix(fileName, suffix) {
			return true
		}
	}

	return false
}
