package extract_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"

	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/config"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/stack"
	. "github.com/veedubyou/instrumental-be/src/shared/testing"
	"github.com/veedubyou/instrumental-be/src/shared/testing/dummy"
	"github.com/veedubyou/instrumental-be/src/worker/internal/jobs/extract"
)

const sourceURL = "https://www.youtube.com/watch?v=jNQXAC9IVRw"

var _ = Describe("Extract job", func() {
	var (
		youtubeExecutor *dummy.YoutubeDLExecutor
		extractionStack *stack.Stack
		handler         extract.JobHandler
	)

	message := func(url string) amqp091.Delivery {
		job := ExpectSuccess(extract.NewJobMessage(url))
		return amqp091.Delivery{Type: job.Type, Body: job.Body}
	}

	BeforeEach(func() {
		root, err := os.MkdirTemp("", "extract-job-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)

		youtubeExecutor = dummy.NewDummyYoutubeDLExecutor()
		extractionStack = ExpectSuccess(stack.New(stack.Config{
			WorkingDirPath:           filepath.Join(root, "wd"),
			MaxConcurrentJobs:        1,
			MaxConcurrentSeparations: 1,
			Demucs:                   demucs.Config{BinPath: "/somewhere/demucs"},
			YoutubeDLBinPath:         "/somewhere/yt-dlp",
			CloudStorage:             config.NoCloudStorage{},
			Executors: stack.Executors{
				Demucs:    dummy.NewDummyDemucsExecutor(),
				YoutubeDL: youtubeExecutor,
			},
		}))
		DeferCleanup(extractionStack.Close)

		handler = extract.NewJobHandler(extractionStack.Service)
	})

	It("builds a persistent JSON message", func() {
		job := ExpectSuccess(extract.NewJobMessage(sourceURL))
		Expect(job.Type).To(Equal(extract.JobType))
		Expect(job.DeliveryMode).To(Equal(amqp091.Persistent))

		params := DecodeJSON[extract.JobParams](bytes.NewReader(job.Body))
		Expect(params.SourceURL).To(Equal(sourceURL))
	})

	Describe("A downloadable link", func() {
		BeforeEach(func() {
			youtubeExecutor.AddURL(sourceURL, WavBytes(SineBuffer(44100, 2, 4410, 440, 0.5)))
		})

		It("extracts and cleans up after itself", func() {
			Expect(handler.HandleMessage(context.Background(), message(sourceURL))).To(Succeed())
			Expect(youtubeExecutor.DownloadAttempts()).To(Equal(1))

			workingDir := extractionStack.Manager.WorkingDir()
			Expect(os.ReadDir(workingDir.Scratch())).To(BeEmpty())
			Expect(os.ReadDir(workingDir.Output())).To(BeEmpty())
			Expect(extractionStack.Manager.InFlight()).To(BeZero())
		})
	})

	Describe("A link that fails to download", func() {
		BeforeEach(func() {
			youtubeExecutor.Unavailable = true
		})

		It("returns the failure", func() {
			err := handler.HandleMessage(context.Background(), message(sourceURL))
			Expect(err).To(HaveOccurred())
			Expect(extractionStack.Manager.InFlight()).To(BeZero())
		})
	})

	Describe("A garbled message", func() {
		It("fails without extracting", func() {
			err := handler.HandleMessage(context.Background(), amqp091.Delivery{Type: extract.JobType, Body: []byte("{not json")})
			Expect(err).To(HaveOccurred())
			Expect(youtubeExecutor.DownloadAttempts()).To(BeZero())
		})
	})
})
