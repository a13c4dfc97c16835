package dummy

import (
	"context"
	"io"
	"sync"

	"github.com/veedubyou/instrumental-be/src/shared/extraction/artifact"
)

var _ artifact.FileStore = &FileStore{}

func NewDummyFileStore() *FileStore {
	return &FileStore{
		Unavailable: false,
		State:       map[string][]byte{},
	}
}

type FileStore struct {
	Unavailable bool
	State       map[string][]byte

	lock sync.Mutex
}

func (f *FileStore) GetFile(_ context.Context, url string) ([]byte, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.Unavailable {
		return nil, NetworkFailure
	}

	content, ok := f.State[url]
	if !ok {
		return nil, NotFound
	}

	return content, nil
}

func (f *FileStore) WriteFile(_ context.Context, url string, content io.Reader) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.Unavailable {
		return NetworkFailure
	}

	bytes, err := io.ReadAll(content)
	if err != nil {
		return err
	}

	f.State[url] = bytes
	return nil
}
