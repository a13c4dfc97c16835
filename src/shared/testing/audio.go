package testlib

import (
	"math"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
)

// SineBuffer makes a buffer where every channel carries the same sine tone
func SineBuffer(sampleRate int, channelCount int, length int, frequency float64, amplitude float64) audioentity.Buffer {
	channels := make([][]float32, channelCount)
	for c := range channels {
		channel := make([]float32, length)
		for i := range channel {
			channel[i] = float32(amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(sampleRate)))
		}
		channels[c] = channel
	}

	return audioentity.Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
	}
}

// ConstantBuffer fills every sample with value
func ConstantBuffer(sampleRate int, channelCount int, length int, value float32) audioentity.Buffer {
	buffer := audioentity.Silence(sampleRate, channelCount, length)
	for _, channel := range buffer.Channels {
		for i := range channel {
			channel[i] = value
		}
	}

	return buffer
}

func StemSet(stems map[audioentity.Category]audioentity.Buffer) audioentity.StemSet {
	return ExpectSuccess(audioentity.NewStemSet(stems))
}

// UniformStemSet gives every category its own copy of the same buffer
func UniformStemSet(buffer audioentity.Buffer) audioentity.StemSet {
	stems := map[audioentity.Category]audioentity.Buffer{}
	for _, category := range audioentity.Categories {
		stems[category] = buffer.Clone()
	}

	return StemSet(stems)
}
