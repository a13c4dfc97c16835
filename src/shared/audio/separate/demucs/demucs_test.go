package demucs_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate"
	"github.com/veedubyou/instrumental-be/src/shared/audio/separate/demucs"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
	"github.com/veedubyou/instrumental-be/src/shared/executor/executorfakes"
	"github.com/veedubyou/instrumental-be/src/shared/lib/working_dir"
	. "github.com/veedubyou/instrumental-be/src/shared/testing"
	"github.com/veedubyou/instrumental-be/src/shared/testing/dummy"
)

var _ = Describe("Demucs backend", func() {
	var (
		workingDir    working_dir.WorkingDir
		dummyExecutor *dummy.DemucsExecutor
		backend       demucs.Backend
		input         audioentity.Buffer
	)

	BeforeEach(func() {
		root, err := os.MkdirTemp("", "demucs-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, root)

		workingDir = ExpectSuccess(working_dir.NewWorkingDir(root))
		dummyExecutor = dummy.NewDummyDemucsExecutor()
		input = SineBuffer(separate.ModelRate, 2, 2205, 440, 0.5)
	})

	JustBeforeEach(func() {
		codec := wavfile.NewCodec("", nil, workingDir.TempDir())
		backend = demucs.NewBackend(demucs.Config{BinPath: "/somewhere/demucs"}, workingDir, codec, dummyExecutor)
	})

	Describe("Init", func() {
		It("succeeds when demucs runs", func() {
			Expect(backend.Init(context.Background())).To(Succeed())
		})

		Context("when demucs is not runnable", func() {
			BeforeEach(func() {
				dummyExecutor.Unavailable = true
			})

			It("fails", func() {
				Expect(backend.Init(context.Background())).NotTo(Succeed())
			})
		})
	})

	Describe("Separate", func() {
		var (
			stems map[audioentity.Category]audioentity.Buffer
			err   error
		)

		JustBeforeEach(func() {
			stems, err = backend.Separate(context.Background(), input)
		})

		It("reads every stem demucs wrote", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(stems).To(HaveLen(4))
			for _, category := range audioentity.Categories {
				Expect(stems).To(HaveKey(category))
			}
		})

		It("returns stems with the content demucs produced", func() {
			drums := stems[audioentity.Drums]
			Expect(drums.SampleRate).To(Equal(separate.ModelRate))
			Expect(drums.SameShape(input)).To(BeTrue())
			Expect(drums.Channels[1][100]).To(Equal(input.Channels[1][100] * 0.5))
		})

		It("cleans up its scratch directory", func() {
			entries := ExpectSuccess(os.ReadDir(workingDir.TempDir()))
			Expect(entries).To(BeEmpty())
		})

		Context("with a mono input", func() {
			BeforeEach(func() {
				input = SineBuffer(separate.ModelRate, 1, 2205, 440, 0.5)
			})

			It("folds the stereo stems back down to one channel", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(stems).To(HaveLen(4))

				drums := stems[audioentity.Drums]
				Expect(drums.SameShape(input)).To(BeTrue())
				Expect(drums.Channels[0][100]).To(Equal(input.Channels[0][100] * 0.5))
			})

			It("lines up with what the adapter expects", func() {
				adapter := separate.NewAdapter(backend, 1)
				DeferCleanup(adapter.Close)

				stemSet, err := adapter.Separate(context.Background(), input)
				Expect(err).NotTo(HaveOccurred())
				vocals, ok := stemSet.Get(audioentity.Vocals)
				Expect(ok).To(BeTrue())
				Expect(vocals.ChannelCount()).To(Equal(1))
			})
		})

		Context("with six channels", func() {
			BeforeEach(func() {
				channels := make([][]float32, 6)
				for i := range channels {
					channels[i] = ConstantBuffer(separate.ModelRate, 1, 2205, float32(i+1)*0.1).Channels[0]
				}
				input = ExpectSuccess(audioentity.NewBuffer(separate.ModelRate, channels))
			})

			It("runs demucs once per pair of channels", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(dummyExecutor.CallCount()).To(Equal(3))
			})

			It("puts every channel's stems back where it was", func() {
				bass := stems[audioentity.Bass]
				Expect(bass.SameShape(input)).To(BeTrue())
				for i, channel := range bass.Channels {
					Expect(channel[10]).To(Equal(input.Channels[i][10] * 0.25))
				}
			})
		})

		Context("with an odd number of channels", func() {
			BeforeEach(func() {
				input = SineBuffer(separate.ModelRate, 3, 2205, 440, 0.5)
			})

			It("separates the last channel on its own", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(dummyExecutor.CallCount()).To(Equal(2))

				other := stems[audioentity.Other]
				Expect(other.SameShape(input)).To(BeTrue())
				Expect(other.Channels[2][100]).To(Equal(input.Channels[2][100] * 0.25))
			})
		})

		Context("when demucs fails", func() {
			BeforeEach(func() {
				dummyExecutor.Unavailable = true
			})

			It("returns an error and no stems", func() {
				Expect(err).To(HaveOccurred())
				Expect(stems).To(BeNil())
			})

			It("still cleans up", func() {
				entries := ExpectSuccess(os.ReadDir(workingDir.TempDir()))
				Expect(entries).To(BeEmpty())
			})
		})

		Context("when demucs leaves out a stem", func() {
			BeforeEach(func() {
				dummyExecutor.DropStems[audioentity.Vocals] = true
			})

			It("returns what it found and lets the adapter judge it", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(stems).To(HaveLen(3))
			})
		})
	})

	Describe("Command line", func() {
		var (
			fakeExecutor *executorfakes.FakeExecutor
			fakeCommand  *executorfakes.FakeCommand
		)

		BeforeEach(func() {
			fakeExecutor = &executorfakes.FakeExecutor{}
			fakeCommand = &executorfakes.FakeCommand{}
			fakeExecutor.CommandReturns(fakeCommand)
		})

		It("asks demucs for float output named by stem", func() {
			codec := wavfile.NewCodec("", nil, workingDir.TempDir())
			backend := demucs.NewBackend(demucs.Config{BinPath: "/somewhere/demucs"}, workingDir, codec, fakeExecutor)

			_, err := backend.Separate(context.Background(), input)
			// nothing was written by the fake, so collecting fails
			Expect(err).To(HaveOccurred())

			binPath, args := fakeExecutor.CommandArgsForCall(0)
			Expect(binPath).To(Equal("/somewhere/demucs"))
			Expect(args).To(ContainElements("-n", demucs.DefaultModel, "-d", demucs.DefaultDevice, "--float32", "{stem}.{ext}"))
			Expect(fakeCommand.SetDirArgsForCall(0)).To(Equal(workingDir.Root()))
		})
	})
})
