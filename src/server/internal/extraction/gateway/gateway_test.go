package extractiongateway_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/server/internal/extraction/errors"
	"github.com/veedubyou/instrumental-be/src/server/internal/extraction/gateway"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
	"github.com/veedubyou/instrumental-be/src/shared/download"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/artifact"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/events"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/lifecycle"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/pipeline"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/service"
	"github.com/veedubyou/instrumental-be/src/shared/extraction/workerpool"
	"github.com/veedubyou/instrumental-be/src/shared/lib/working_dir"
	. "github.com/veedubyou/instrumental-be/src/shared/testing"
	"github.com/veedubyou/instrumental-be/src/shared/testing/dummy"
)

const youtubeURL = "https://www.youtube.com/watch?v=jNQXAC9IVRw"

var _ = Describe("Extraction gateway", func() {
	var (
		workingDir      working_dir.WorkingDir
		youtubeExecutor *dummy.YoutubeDLExecutor
		extractionGW    extractiongateway.Gateway

		audio    []byte
		response *httptest.ResponseRecorder
	)

	expectNoJobFiles := func() {
		Expect(os.ReadDir(workingDir.Scratch())).To(BeEmpty())
		Expect(os.ReadDir(workingDir.Output())).To(BeEmpty())
	}

	expectErrorCode := func(status int, code string) {
		ExpectWithOffset(1, response.Code).To(Equal(status))
		body := DecodeJSONError(response.Body)
		ExpectWithOffset(1, body.Code).To(Equal(code))
		ExpectWithOffset(1, body.Msg).NotTo(BeEmpty())
	}

	expectInstrumental := func() {
		ExpectWithOffset(1, response.Code).To(Equal(http.StatusOK))
		ExpectWithOffset(1, response.Header().Get(echo.HeaderContentType)).To(Equal("audio/wav"))
		ExpectWithOffset(1, response.Header().Get(echo.HeaderContentDisposition)).To(ContainSubstring(extractiongateway.DownloadName))
		ExpectWithOffset(1, response.Header().Get(extractiongateway.JobIDHeader)).NotTo(BeEmpty())

		ExpectWithOffset(1, response.Body.Len()).To(BeNumerically(">", 44))
		ExpectWithOffset(1, response.Body.Bytes()[:4]).To(Equal([]byte("RIFF")))
	}

	BeforeEach(func() {
		root, err := os.MkdirTemp("", "extraction-gateway-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)

		workingDir = ExpectSuccess(working_dir.NewWorkingDir(root))
		manager := lifecycle.NewManager(workingDir)

		codec := wavfile.NewCodec("", nil, workingDir.TempDir())
		backend := demucs.NewBackend(demucs.Config{BinPath: "/somewhere/demucs"}, workingDir, codec, dummy.NewDummyDemucsExecutor())
		adapter := separate.NewAdapter(backend, 1)
		DeferCleanup(adapter.Close)
		extractor := pipeline.NewPipeline(codec, adapter, pipeline.DefaultSmallOutputThreshold)

		youtubeExecutor = dummy.NewDummyYoutubeDLExecutor()
		downloader := download.NewSelectDLer(
			download.NewYoutubeDLer("/somewhere/yt-dlp", youtubeExecutor),
			download.NewGenericDLer(nil, 0),
		)

		svc := service.NewService(manager, workerpool.NewPool(2), extractor, downloader, artifact.NoArchiver{}, events.NoNotifier{})
		extractionGW = extractiongateway.NewGateway(svc)

		audio = WavBytes(SineBuffer(48000, 2, 4800, 440, 0.5))
		response = httptest.NewRecorder()
	})

	Describe("Extract instrumental from an upload", func() {
		var request *http.Request

		JustBeforeEach(func() {
			c := PrepareEchoContext(request, response)
			Expect(extractionGW.ExtractInstrumental(c)).To(Succeed())
		})

		Describe("A readable track", func() {
			BeforeEach(func() {
				request = MultipartUpload("/extract-instrumental/", extractiongateway.UploadField, "song.wav", audio)
			})

			It("streams back the instrumental", func() {
				expectInstrumental()
			})

			It("has no warnings", func() {
				Expect(response.Header().Get(extractiongateway.WarningsHeader)).To(BeEmpty())
				Expect(response.Header().Get(extractiongateway.ArchiveURLHeader)).To(BeEmpty())
			})

			It("cleans up the job once streamed", func() {
				expectNoJobFiles()
			})
		})

		Describe("A silent track", func() {
			BeforeEach(func() {
				silence := WavBytes(ConstantBuffer(44100, 2, 4410, 0))
				request = MultipartUpload("/extract-instrumental/", extractiongateway.UploadField, "silence.wav", silence)
			})

			It("still succeeds", func() {
				Expect(response.Code).To(Equal(http.StatusOK))
			})

			It("reports the silent mix", func() {
				warnings := response.Header().Get(extractiongateway.WarningsHeader)
				Expect(warnings).To(ContainSubstring(string(pipeline.SilentMixWarning)))
			})
		})

		Describe("No file in the form", func() {
			BeforeEach(func() {
				request = FormPost("/extract-instrumental/", url.Values{"something": {"else"}})
			})

			It("rejects the request", func() {
				expectErrorCode(http.StatusBadRequest, string(extractionerrors.MissingFileCode))
			})
		})

		Describe("A file that isn't audio", func() {
			BeforeEach(func() {
				request = MultipartUpload("/extract-instrumental/", extractiongateway.UploadField, "notes.txt", []byte("definitely not a song"))
			})

			It("rejects the request", func() {
				expectErrorCode(http.StatusBadRequest, string(extractionerrors.UnreadableAudioCode))
			})

			It("leaves nothing behind", func() {
				expectNoJobFiles()
			})
		})
	})

	Describe("Extract instrumental from Youtube", func() {
		var sourceURL string

		JustBeforeEach(func() {
			request := FormPost("/extract-from-youtube/", url.Values{extractiongateway.URLField: {sourceURL}})
			c := PrepareEchoContext(request, response)
			Expect(extractionGW.ExtractFromYoutube(c)).To(Succeed())
		})

		Describe("A downloadable video", func() {
			BeforeEach(func() {
				sourceURL = youtubeURL
				youtubeExecutor.AddURL(sourceURL, audio)
			})

			It("streams back the instrumental", func() {
				expectInstrumental()
			})

			It("downloads once", func() {
				Expect(youtubeExecutor.DownloadAttempts()).To(Equal(1))
			})

			It("cleans up the job once streamed", func() {
				expectNoJobFiles()
			})
		})

		Describe("No URL", func() {
			BeforeEach(func() {
				sourceURL = "   "
			})

			It("rejects the request", func() {
				expectErrorCode(http.StatusBadRequest, string(extractionerrors.InvalidURLCode))
			})
		})

		Describe("A URL that can't be downloaded from", func() {
			BeforeEach(func() {
				sourceURL = "ftp://example.com/song.mp3"
			})

			It("rejects the request", func() {
				expectErrorCode(http.StatusBadRequest, string(extractionerrors.InvalidURLCode))
			})

			It("never tries to download", func() {
				Expect(youtubeExecutor.DownloadAttempts()).To(BeZero())
			})
		})

		Describe("A video that fails to download", func() {
			BeforeEach(func() {
				sourceURL = youtubeURL
				youtubeExecutor.Unavailable = true
			})

			It("reports a bad gateway", func() {
				expectErrorCode(http.StatusBadGateway, string(extractionerrors.DownloadFailedCode))
			})

			It("clears the cache and retries", func() {
				Expect(youtubeExecutor.DownloadAttempts()).To(Equal(2))
				Expect(youtubeExecutor.CacheClears()).To(Equal(1))
			})

			It("leaves nothing behind", func() {
				expectNoJobFiles()
			})
		})
	})
})
