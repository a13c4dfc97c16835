package resample_test

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/audio/resample"
	. "github.com/veedubyou/instrumental-be/src/shared/testing"
)

var _ = Describe("Resample", func() {
	var (
		input      audioentity.Buffer
		targetRate int

		output audioentity.Buffer
		err    error
	)

	// skip the filter's ramp up and ramp down at both ends
	expectSineAtRate := func(buffer audioentity.Buffer, frequency float64, amplitude float64) {
		margin := buffer.SampleRate / 100
		for _, channel := range buffer.Channels {
			for i := margin; i < len(channel)-margin; i++ {
				expected := amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(buffer.SampleRate))
				Expect(float64(channel[i])).To(BeNumerically("~", expected, 0.02))
			}
		}
	}

	JustBeforeEach(func() {
		output, err = resample.Resample(input, targetRate)
	})

	Describe("Equal rates", func() {
		BeforeEach(func() {
			input = SineBuffer(44100, 2, 4410, 440, 0.5)
			targetRate = 44100
		})

		It("returns the exact same samples", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(output).To(Equal(input))
			Expect(&output.Channels[0][0]).To(BeIdenticalTo(&input.Channels[0][0]))
		})
	})

	Describe("Downsampling 48000 to 44100", func() {
		BeforeEach(func() {
			input = SineBuffer(48000, 2, 48000, 440, 0.5)
			targetRate = 44100
		})

		It("changes the sample rate", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(output.SampleRate).To(Equal(44100))
		})

		It("keeps the channel count", func() {
			Expect(output.ChannelCount()).To(Equal(2))
		})

		It("produces round(n * target / source) samples", func() {
			Expect(output.Len()).To(Equal(44100))
		})

		It("preserves the tone", func() {
			expectSineAtRate(output, 440, 0.5)
		})
	})

	Describe("Upsampling 22050 to 44100", func() {
		BeforeEach(func() {
			input = SineBuffer(22050, 1, 11025, 1000, 0.8)
			targetRate = 44100
		})

		It("produces twice the samples", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(output.Len()).To(Equal(22050))
		})

		It("preserves the tone", func() {
			expectSineAtRate(output, 1000, 0.8)
		})
	})

	Describe("Rate round trip", func() {
		for _, rate := range []int{8000, 22050, 32000, 48000, 96000} {
			rate := rate

			It(fmt.Sprintf("comes back to the original length within two samples via %d Hz", rate), func() {
				original := SineBuffer(44100, 2, 44101, 220, 0.3)

				there := ExpectSuccess(resample.Resample(original, rate))
				back := ExpectSuccess(resample.Resample(there, original.SampleRate))

				Expect(back.SampleRate).To(Equal(original.SampleRate))
				Expect(back.ChannelCount()).To(Equal(original.ChannelCount()))
				Expect(math.Abs(float64(back.Len() - original.Len()))).To(BeNumerically("<=", 2))
			})
		}
	})

	Describe("Invalid rates", func() {
		BeforeEach(func() {
			input = SineBuffer(44100, 1, 100, 440, 0.5)
		})

		Context("when the target rate is zero", func() {
			BeforeEach(func() {
				targetRate = 0
			})

			It("fails with an invalid rate error", func() {
				Expect(err).To(HaveOccurred())
				Expect(markers.Is(err, resample.InvalidRateMark)).To(BeTrue())
			})
		})

		Context("when the source rate is negative", func() {
			BeforeEach(func() {
				input.SampleRate = -44100
				targetRate = 44100
			})

			It("fails with an invalid rate error", func() {
				Expect(markers.Is(err, resample.InvalidRateMark)).To(BeTrue())
			})
		})
	})
})

var _ = Describe("OutputLength", func() {
	It("rounds to the nearest sample", func() {
		Expect(resample.OutputLength(3, 2, 3)).To(Equal(5))
		Expect(resample.OutputLength(44100, 44100, 48000)).To(Equal(48000))
		Expect(resample.OutputLength(1000, 48000, 44100)).To(Equal(919))
	})

	It("never drops a non-empty buffer to zero samples", func() {
		Expect(resample.OutputLength(1, 96000, 8000)).To(Equal(1))
	})

	It("keeps empty input empty", func() {
		Expect(resample.OutputLength(0, 48000, 44100)).To(Equal(0))
	})
})
