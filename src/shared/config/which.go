package config

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/veedubyou/instrumental-be/src/shared/config/envvar"
)

func FindBin(bin string) string {
	cmd := exec.Command("which", bin)
	output, err := cmd.CombinedOutput()

	stringOutput := string(output)
	if err != nil {
		panic(fmt.Sprintf("Failed to find %s: %s", bin, stringOutput))
	}

	trimmedOutput := strings.TrimSpace(stringOutput)
	if trimmedOutput == "" {
		panic(fmt.Sprintf("No bin found for %s", bin))
	}

	return trimmedOutput
}

// an explicit env var always wins over whatever is on the PATH
func binPath(envKey string, bin string) string {
	if path := envvar.GetOr(envKey, ""); path != "" {
		return path
	}

	return FindBin(bin)
}

func DemucsPath() string {
	return binPath(envvar.DEMUCS_BIN_PATH, "demucs")
}

func FFmpegPath() string {
	return binPath(envvar.FFMPEG_BIN_PATH, "ffmpeg")
}

func YoutubeDLPath() string {
	return binPath(envvar.YOUTUBEDL_BIN_PATH, "yt-dlp")
}

// FFmpegPathIfInstalled is for callers that can get by without transcoding
func FFmpegPathIfInstalled() string {
	if path := envvar.GetOr(envvar.FFMPEG_BIN_PATH, ""); path != "" {
		return path
	}

	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return ""
	}

	return path
}
