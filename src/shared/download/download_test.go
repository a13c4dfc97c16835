package download_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/shared/download"
	"github.com/veedubyou/instrumental-be/src/shared/executor/executorfakes"
	"github.com/veedubyou/instrumental-be/src/shared/testing/dummy"
)

var _ = Describe("Downloaders", func() {
	var (
		ctx     context.Context
		destDir string
		jobName string
	)

	BeforeEach(func() {
		ctx = context.Background()
		jobName = "some-job-id"

		var err error
		destDir, err = os.MkdirTemp("", "download-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, destDir)
	})

	expectNothingLeft := func() {
		entries, err := os.ReadDir(destDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	}

	Describe("YoutubeDLer", func() {
		var (
			dummyExecutor *dummy.YoutubeDLExecutor
			downloader    download.YoutubeDLer
			sourceURL     string
			content       []byte
		)

		BeforeEach(func() {
			sourceURL = "https://www.youtube.com/watch?v=coolsong"
			content = []byte("cool_jamz")

			dummyExecutor = dummy.NewDummyYoutubeDLExecutor()
			dummyExecutor.AddURL(sourceURL, content)
			downloader = download.NewYoutubeDLer("/bin/yt-dlp", dummyExecutor)
		})

		It("saves the audio under the job's name", func() {
			path, err := downloader.Download(ctx, sourceURL, destDir, jobName)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(destDir, jobName+".mp3")))
			Expect(os.ReadFile(path)).To(Equal(content))
		})

		It("only clears the cache when something goes wrong", func() {
			_, err := downloader.Download(ctx, sourceURL, destDir, jobName)
			Expect(err).NotTo(HaveOccurred())
			Expect(dummyExecutor.CacheClears()).To(Equal(0))
			Expect(dummyExecutor.DownloadAttempts()).To(Equal(1))
		})

		Context("when the first attempt fails", func() {
			BeforeEach(func() {
				dummyExecutor.FailDownloads = 1
			})

			It("clears the cache and tries again", func() {
				path, err := downloader.Download(ctx, sourceURL, destDir, jobName)
				Expect(err).NotTo(HaveOccurred())
				Expect(path).To(BeARegularFile())
				Expect(dummyExecutor.CacheClears()).To(Equal(1))
				Expect(dummyExecutor.DownloadAttempts()).To(Equal(2))
			})
		})

		Context("when every attempt fails", func() {
			BeforeEach(func() {
				dummyExecutor.Unavailable = true
			})

			It("returns a download error", func() {
				_, err := downloader.Download(ctx, sourceURL, destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
				Expect(dummyExecutor.DownloadAttempts()).To(Equal(2))
				expectNothingLeft()
			})
		})

		Context("when youtube-dl exits cleanly but writes nothing", func() {
			BeforeEach(func() {
				dummyExecutor.Silent = true
			})

			It("returns a download error", func() {
				_, err := downloader.Download(ctx, sourceURL, destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
			})
		})

		Context("when only a partial file is left behind", func() {
			BeforeEach(func() {
				dummyExecutor.Silent = true
				Expect(os.WriteFile(filepath.Join(destDir, jobName+".webm.part"), []byte("half"), 0644)).To(Succeed())
			})

			It("doesn't hand out the partial file", func() {
				_, err := downloader.Download(ctx, sourceURL, destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
				expectNothingLeft()
			})
		})

		Context("when the download is abandoned", func() {
			It("doesn't run youtube-dl", func() {
				cancelled, cancel := context.WithCancel(ctx)
				cancel()

				_, err := downloader.Download(cancelled, sourceURL, destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
				Expect(dummyExecutor.DownloadAttempts()).To(Equal(0))
			})
		})

		It("passes the expected arguments", func() {
			fakeExecutor := &executorfakes.FakeExecutor{}
			fakeCommand := &executorfakes.FakeCommand{}
			fakeExecutor.CommandReturns(fakeCommand)
			fakeCommand.CombinedOutputCalls(func() ([]byte, error) {
				return nil, os.WriteFile(filepath.Join(destDir, jobName+".mp3"), content, 0644)
			})

			_, err := download.NewYoutubeDLer("/bin/yt-dlp", fakeExecutor).Download(ctx, sourceURL, destDir, jobName)
			Expect(err).NotTo(HaveOccurred())

			bin, args := fakeExecutor.CommandArgsForCall(0)
			Expect(bin).To(Equal("/bin/yt-dlp"))
			Expect(args).To(Equal([]string{
				"--no-playlist",
				"--extract-audio",
				"--audio-format", "mp3",
				"--audio-quality", "192K",
				"-o", filepath.Join(destDir, jobName+".%(ext)s"),
				sourceURL,
			}))
		})
	})

	Describe("GenericDLer", func() {
		var (
			server     *httptest.Server
			status     int
			body       []byte
			streamed   bool
			downloader download.GenericDLer
		)

		BeforeEach(func() {
			status = http.StatusOK
			body = []byte("RIFF not really")
			streamed = false

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if streamed {
					for i := 0; i < 64; i++ {
						_, _ = w.Write(body)
						w.(http.Flusher).Flush()
					}
					return
				}

				w.WriteHeader(status)
				_, _ = w.Write(body)
			}))
			DeferCleanup(server.Close)

			downloader = download.NewGenericDLer(server.Client(), int64(len(body)))
		})

		It("saves the body with the URL's extension", func() {
			path, err := downloader.Download(ctx, server.URL+"/songs/cool.wav", destDir, jobName)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(destDir, jobName+".wav")))
			Expect(os.ReadFile(path)).To(Equal(body))
		})

		It("falls back to a generic extension", func() {
			path, err := downloader.Download(ctx, server.URL+"/stream", destDir, jobName)
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Base(path)).To(Equal(jobName + ".audio"))
		})

		Context("when the source responds with an error status", func() {
			BeforeEach(func() {
				status = http.StatusNotFound
			})

			It("returns a download error and leaves no file", func() {
				_, err := downloader.Download(ctx, server.URL+"/songs/cool.wav", destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
				expectNothingLeft()
			})
		})

		Context("when the source sends more than the size limit", func() {
			JustBeforeEach(func() {
				downloader = download.NewGenericDLer(server.Client(), int64(len(body)-1))
			})

			It("returns a download error and leaves no file", func() {
				_, err := downloader.Download(ctx, server.URL+"/songs/cool.wav", destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
				expectNothingLeft()
			})
		})

		Context("when the source streams without saying how much", func() {
			BeforeEach(func() {
				streamed = true
			})

			It("stops reading past the limit", func() {
				_, err := downloader.Download(ctx, server.URL+"/songs/cool.wav", destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
				expectNothingLeft()
			})
		})

		Context("when the source responds with nothing", func() {
			BeforeEach(func() {
				body = nil
			})

			It("returns a download error and leaves no file", func() {
				_, err := downloader.Download(ctx, server.URL+"/songs/cool.wav", destDir, jobName)
				Expect(markers.Is(err, download.DownloadMark)).To(BeTrue())
				expectNothingLeft()
			})
		})
	})

	Describe("SelectDLer", func() {
		var (
			dummyExecutor *dummy.YoutubeDLExecutor
			server        *httptest.Server
			downloader    download.SelectDLer
		)

		BeforeEach(func() {
			dummyExecutor = dummy.NewDummyYoutubeDLExecutor()
			dummyExecutor.AddURL("https://youtu.be/coolsong", []byte("from youtube"))

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("from the web"))
			}))
			DeferCleanup(server.Close)

			downloader = download.NewSelectDLer(
				download.NewYoutubeDLer("/bin/yt-dlp", dummyExecutor),
				download.NewGenericDLer(server.Client(), 0),
			)
		})

		It("sends youtube links to youtube-dl", func() {
			path, err := downloader.Download(ctx, "https://youtu.be/coolsong", destDir, jobName)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(path)).To(Equal([]byte("from youtube")))
		})

		It("fetches everything else directly", func() {
			path, err := downloader.Download(ctx, server.URL+"/cool.mp3", destDir, jobName)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(path)).To(Equal([]byte("from the web")))
			Expect(dummyExecutor.DownloadAttempts()).To(BeZero())
		})

		DescribeTable("rejects URLs it can't download",
			func(sourceURL string) {
				_, err := downloader.Download(ctx, sourceURL, destDir, jobName)
				Expect(markers.Is(err, download.InvalidURLMark)).To(BeTrue())
			},
			Entry("no scheme", "youtube.com/watch?v=1"),
			Entry("a file URL", "file:///etc/passwd"),
			Entry("no host", "https://"),
			Entry("nonsense", "::not a url"),
		)
	})

	DescribeTable("IsYoutubeHost",
		func(host string, expected bool) {
			Expect(download.IsYoutubeHost(host)).To(Equal(expected))
		},
		Entry("youtube.com", "youtube.com", true),
		Entry("www", "www.youtube.com", true),
		Entry("music", "music.youtube.com", true),
		Entry("short links", "youtu.be", true),
		Entry("case", "WWW.YouTube.com", true),
		Entry("lookalike", "notyoutube.com", false),
		Entry("other", "example.com", false),
	)
})
