package testlib

import (
	"os"
	"path/filepath"

	"github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
)

// WavBytes encodes buffer the same way extraction output is written
func WavBytes(buffer audioentity.Buffer) []byte {
	dir, err := os.MkdirTemp("", "wav-bytes-*")
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "buffer.wav")
	_, err = wavfile.NewCodec("", nil, dir).Write(path, buffer)
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())

	content, err := os.ReadFile(path)
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())

	return content
}
