package dummy

import (
	"os"
	"strings"
	"sync"

	"github.com/veedubyou/instrumental-be/src/shared/executor"
)

var _ executor.Executor = &YoutubeDLExecutor{}

func NewDummyYoutubeDLExecutor() *YoutubeDLExecutor {
	return &YoutubeDLExecutor{
		Unavailable: false,
		URLContent:  make(URLContent),
	}
}

type URLContent map[string][]byte

type YoutubeDLExecutor struct {
	Unavailable bool
	// FailDownloads makes this many download attempts fail before the rest succeed
	FailDownloads int
	// Silent makes downloads exit cleanly without writing anything
	Silent     bool
	URLContent URLContent

	lock             sync.Mutex
	downloadAttempts int
	cacheClears      int
}

func (y *YoutubeDLExecutor) AddURL(url string, content []byte) {
	y.URLContent[url] = append([]byte{}, content...)
}

func (y *YoutubeDLExecutor) DownloadAttempts() int {
	y.lock.Lock()
	defer y.lock.Unlock()
	return y.downloadAttempts
}

func (y *YoutubeDLExecutor) CacheClears() int {
	y.lock.Lock()
	defer y.lock.Unlock()
	return y.cacheClears
}

func (y *YoutubeDLExecutor) Command(_ string, arg ...string) executor.Command {
	return &YoutubeDLCommand{
		executor: y,
		Args:     arg,
	}
}

type YoutubeDLCommand struct {
	executor *YoutubeDLExecutor
	Args     []string
}

func (y *YoutubeDLCommand) SetDir(_ string) {}

func (y *YoutubeDLCommand) CombinedOutput() ([]byte, error) {
	e := y.executor

	if len(y.Args) == 1 && y.Args[0] == "--rm-cache-dir" {
		e.lock.Lock()
		e.cacheClears++
		e.lock.Unlock()
		return []byte("Removed cache"), nil
	}

	outputTemplate, err := getOptionValue(y.Args, "-o")
	if err != nil {
		return nil, err
	}

	e.lock.Lock()
	e.downloadAttempts++
	failing := e.downloadAttempts <= e.FailDownloads
	e.lock.Unlock()

	if e.Unavailable || failing {
		return []byte("ERROR: unable to download webpage"), NetworkFailure
	}

	if e.Silent {
		return []byte("Success"), nil
	}

	lastIndex := len(y.Args) - 1
	sourceURL := y.Args[lastIndex]

	fileContents, ok := e.URLContent[sourceURL]
	if !ok {
		return []byte("ERROR: video unavailable"), NotFound
	}

	outputPath := strings.ReplaceAll(outputTemplate, "%(ext)s", "mp3")
	err = os.WriteFile(outputPath, fileContents, 0644)
	if err != nil {
		return nil, err
	}

	return []byte("Success"), nil
}
