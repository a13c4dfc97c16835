package service_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/shared/audio/separate"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
	"github.com/veedubyou/instrumental-be/src/shared/download"
	"github.com/veedubyou/instrumental-be/src/shared/download/downloadfakes"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/artifact"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/events"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/lifecycle"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/pipeline"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/service"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/service/servicefakes"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/workerpool"
	"github.com/veedubyou/instrumental-be/src/shared/lib/rabbitmq/rabbitmqfakes"
	"github.com/veedubyou/instrumental-be/src/shared/lib/working_dir"
	. "github.com/veedubyou/instrumental-be/src/shared/testing"
	"github.com/veedubyou/instrumental-be/src/shared/testing/dummy"
)

var _ = Describe("Service", func() {
	var (
		ctx            context.Context
		workingDir     working_dir.WorkingDir
		manager        *lifecycle.Manager
		extractor      service.Extractor
		fakeDownloader *downloadfakes.FakeDownloader
		archiver       artifact.Archiver
		dummyFileStore *dummy.FileStore
		fakePublisher  *rabbitmqfakes.FakePublisher

		svc service.Service

		audio []byte
	)

	publishedTypes := func() []string {
		types := []string{}
		for i := 0; i < fakePublisher.PublishCallCount(); i++ {
			_, msg := fakePublisher.PublishArgsForCall(i)
			types = append(types, msg.Type)
		}
		return types
	}

	lastEvent := func() events.Message {
		_, msg := fakePublisher.PublishArgsForCall(fakePublisher.PublishCallCount() - 1)
		return DecodeJSON[events.Message](bytes.NewReader(msg.Body))
	}

	expectNoJobFiles := func() {
		Expect(os.ReadDir(workingDir.Scratch())).To(BeEmpty())
		Expect(os.ReadDir(workingDir.Output())).To(BeEmpty())
		Expect(manager.InFlight()).To(BeZero())
	}

	BeforeEach(func() {
		ctx = context.Background()

		root, err := os.MkdirTemp("", "service-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)

		workingDir = ExpectSuccess(working_dir.NewWorkingDir(root))
		manager = lifecycle.NewManager(workingDir)

		codec := wavfile.NewCodec("", nil, workingDir.TempDir())
		backend := demucs.NewBackend(demucs.Config{BinPath: "/somewhere/demucs"}, workingDir, codec, dummy.NewDummyDemucsExecutor())
		adapter := separate.NewAdapter(backend, 1)
		DeferCleanup(adapter.Close)
		extractor = pipeline.NewPipeline(codec, adapter, pipeline.DefaultSmallOutputThreshold)

		fakeDownloader = &downloadfakes.FakeDownloader{}
		dummyFileStore = dummy.NewDummyFileStore()
		archiver = artifact.NoArchiver{}
		fakePublisher = &rabbitmqfakes.FakePublisher{}

		audio = WavBytes(SineBuffer(48000, 2, 4800, 440, 0.5))
	})

	JustBeforeEach(func() {
		svc = service.NewService(manager, workerpool.NewPool(2), extractor, fakeDownloader, archiver, events.NewQueueNotifier(fakePublisher))
	})

	Describe("ExtractFile", func() {
		Describe("Happy path", func() {
			var (
				outcome service.Outcome
				err     error
			)

			JustBeforeEach(func() {
				outcome, err = svc.ExtractFile(ctx, "song.wav", bytes.NewReader(audio))
			})

			It("produces an instrumental at the input's rate", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(outcome.OutputPath).To(BeARegularFile())
				Expect(outcome.SampleRate).To(Equal(48000))
				Expect(filepath.Base(outcome.OutputPath)).To(Equal(lifecycle.OutputFileName))
			})

			It("keeps the output until finished", func() {
				Expect(manager.Sweep().Removed).To(BeEmpty())
				Expect(outcome.OutputPath).To(BeARegularFile())

				result := outcome.Finish()
				Expect(result.Removed).To(ConsistOf(outcome.JobID))
				expectNoJobFiles()
			})

			It("reports the job", func() {
				Expect(publishedTypes()).To(Equal([]string{events.CompletedType}))

				msg := lastEvent()
				Expect(msg.JobID).To(Equal(outcome.JobID))
				Expect(msg.Source).To(Equal(events.UploadSource))
				Expect(msg.SampleRate).To(Equal(48000))
			})

			It("doesn't archive without storage", func() {
				Expect(outcome.ArchiveURL).To(BeEmpty())
			})

			Context("with archiving", func() {
				BeforeEach(func() {
					archiver = artifact.NewStoreArchiver(dummyFileStore, artifact.GOOGLE_STORAGE_HOST, "bucket-head")
				})

				It("archives the instrumental", func() {
					Expect(err).NotTo(HaveOccurred())
					Expect(outcome.ArchiveURL).To(ContainSubstring(outcome.JobID))

					archived := ExpectSuccess(dummyFileStore.GetFile(ctx, outcome.ArchiveURL))
					Expect(archived).To(Equal(ExpectSuccess(os.ReadFile(outcome.OutputPath))))
					Expect(lastEvent().ArchiveURL).To(Equal(outcome.ArchiveURL))
				})

				Context("when the storage is unavailable", func() {
					BeforeEach(func() {
						dummyFileStore.Unavailable = true
					})

					It("still succeeds, with a warning", func() {
						Expect(err).NotTo(HaveOccurred())
						Expect(outcome.Warnings).To(ContainElement(service.ArchiveFailedWarning))
						Expect(outcome.ArchiveURL).To(BeEmpty())
						Expect(lastEvent().Warnings).To(ContainElement(string(service.ArchiveFailedWarning)))
					})
				})
			})
		})

		Describe("Unreadable upload", func() {
			It("fails and discards the job", func() {
				_, err := svc.ExtractFile(ctx, "song.wav", bytes.NewReader([]byte("not audio")))
				Expect(markers.Is(err, wavfile.UnreadableAudioMark)).To(BeTrue())
				Expect(service.KindOf(err)).To(Equal(service.UnreadableAudioKind))

				expectNoJobFiles()
				Expect(publishedTypes()).To(Equal([]string{events.FailedType}))
				Expect(lastEvent().ErrorKind).To(Equal(string(service.UnreadableAudioKind)))
			})
		})

		Describe("Abandoned request", func() {
			var fakeExtractor *servicefakes.FakeExtractor

			BeforeEach(func() {
				fakeExtractor = &servicefakes.FakeExtractor{}
				extractor = fakeExtractor

				cancelled, cancel := context.WithCancel(ctx)
				ctx = cancelled
				fakeExtractor.ExtractCalls(func(_ context.Context, job pipeline.Job) (pipeline.Result, error) {
					Expect(os.WriteFile(job.OutputPath(), []byte("half an instrumental"), 0644)).To(Succeed())
					cancel()
					return pipeline.Result{}, errors.Mark(context.Canceled, pipeline.PipelineMark)
				})
			})

			It("reclaims whatever the job wrote", func() {
				_, err := svc.ExtractFile(ctx, "song.wav", bytes.NewReader(audio))
				Expect(service.KindOf(err)).To(Equal(service.CancelledKind))
				expectNoJobFiles()
			})
		})

		Describe("Concurrent jobs", func() {
			It("keep to their own files", func() {
				const jobCount = 4
				outcomes := make([]service.Outcome, jobCount)

				var wg sync.WaitGroup
				for i := 0; i < jobCount; i++ {
					wg.Add(1)
					go func(i int) {
						defer GinkgoRecover()
						defer wg.Done()

						outcomes[i] = ExpectSuccess(svc.ExtractFile(ctx, "song.wav", bytes.NewReader(audio)))
					}(i)
				}
				wg.Wait()

				paths := map[string]bool{}
				for _, outcome := range outcomes {
					paths[outcome.OutputPath] = true
				}
				Expect(paths).To(HaveLen(jobCount))

				outcomes[0].Finish()
				Expect(outcomes[0].OutputPath).NotTo(BeAnExistingFile())
				for _, outcome := range outcomes[1:] {
					Expect(outcome.OutputPath).To(BeARegularFile())
				}
			})
		})
	})

	Describe("ExtractURL", func() {
		const sourceURL = "https://youtu.be/coolsong"

		Describe("Happy path", func() {
			BeforeEach(func() {
				fakeDownloader.DownloadCalls(func(_ context.Context, _ string, destDir string, name string) (string, error) {
					path := filepath.Join(destDir, name+".wav")
					return path, os.WriteFile(path, audio, 0644)
				})
			})

			It("downloads into the job's staging dir and extracts", func() {
				outcome, err := svc.ExtractURL(ctx, sourceURL)
				Expect(err).NotTo(HaveOccurred())
				Expect(outcome.OutputPath).To(BeARegularFile())

				_, calledURL, destDir, name := fakeDownloader.DownloadArgsForCall(0)
				Expect(calledURL).To(Equal(sourceURL))
				Expect(filepath.Dir(destDir)).To(Equal(workingDir.Scratch()))
				Expect(name).To(Equal(outcome.JobID))

				msg := lastEvent()
				Expect(msg.Source).To(Equal(events.URLSource))
				Expect(msg.SourceURL).To(Equal(sourceURL))
			})
		})

		Describe("Invalid URL", func() {
			It("fails without starting a job", func() {
				_, err := svc.ExtractURL(ctx, "ftp://somewhere/song.mp3")
				Expect(markers.Is(err, download.InvalidURLMark)).To(BeTrue())
				Expect(fakeDownloader.DownloadCallCount()).To(BeZero())
				expectNoJobFiles()
			})
		})

		Describe("Download failure", func() {
			BeforeEach(func() {
				fakeDownloader.DownloadReturns("", errors.Mark(errors.New("video unavailable"), download.DownloadMark))
			})

			It("fails with a download error and discards the job", func() {
				_, err := svc.ExtractURL(ctx, sourceURL)
				Expect(service.KindOf(err)).To(Equal(service.DownloadKind))
				expectNoJobFiles()
				Expect(lastEvent().ErrorKind).To(Equal(string(service.DownloadKind)))
			})
		})
	})
})
