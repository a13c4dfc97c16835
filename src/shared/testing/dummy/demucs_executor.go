package dummy

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/audio/wavfile"
	"github.com/veedubyou/instrumental-be/src/shared/executor"
)

var _ executor.Executor = &DemucsExecutor{}

// StemGains are how loud each separated stem is relative to the input.
// With the defaults the non vocal stems add back up to the input.
var StemGains = map[audioentity.Category]float32{
	audioentity.Drums:  0.5,
	audioentity.Bass:   0.25,
	audioentity.Other:  0.25,
	audioentity.Vocals: 2,
}

func NewDummyDemucsExecutor() *DemucsExecutor {
	return &DemucsExecutor{
		Unavailable: false,
		DropStems:   map[audioentity.Category]bool{},
	}
}

type DemucsExecutor struct {
	Unavailable bool
	// DropStems leaves categories out of the output to fake a broken model
	DropStems map[audioentity.Category]bool
	// TrimSamples shortens the drums stem to fake misaligned output
	TrimSamples int

	lock      sync.Mutex
	callCount int
}

func (d *DemucsExecutor) CallCount() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.callCount
}

func (d *DemucsExecutor) Command(_ string, arg ...string) executor.Command {
	d.lock.Lock()
	d.callCount++
	d.lock.Unlock()

	return &DemucsCommand{
		Unavailable: d.Unavailable,
		DropStems:   d.DropStems,
		TrimSamples: d.TrimSamples,
		Args:        arg,
	}
}

type DemucsCommand struct {
	Unavailable bool
	DropStems   map[audioentity.Category]bool
	TrimSamples int
	Args        []string
	Dir         string
}

func (d *DemucsCommand) SetDir(dir string) {
	d.Dir = dir
}

func getOptionValue(args []string, key string) (string, error) {
	for i, arg := range args {
		if arg == key && i+1 < len(args) {
			return args[i+1], nil
		}
	}

	return "", UnexpectedInput
}

func (d *DemucsCommand) CombinedOutput() ([]byte, error) {
	if d.Unavailable {
		return nil, NetworkFailure
	}

	if len(d.Args) == 1 && d.Args[0] == "--help" {
		return []byte("usage: demucs"), nil
	}

	model, err := getOptionValue(d.Args, "-n")
	if err != nil {
		return nil, err
	}

	destinationDir, err := getOptionValue(d.Args, "-o")
	if err != nil {
		return nil, err
	}

	sourcePath := d.Args[len(d.Args)-1]

	codec := wavfile.NewCodec("", nil, os.TempDir())
	input, err := codec.Read(context.Background(), sourcePath)
	if err != nil {
		return nil, err
	}
	input = toModelChannels(input)

	stemDir := filepath.Join(destinationDir, model)
	if err := os.MkdirAll(stemDir, os.ModePerm); err != nil {
		return nil, err
	}

	for category, gain := range StemGains {
		if d.DropStems[category] {
			continue
		}

		stem := scale(input, gain)
		if category == audioentity.Drums && d.TrimSamples > 0 {
			for i := range stem.Channels {
				stem.Channels[i] = stem.Channels[i][:len(stem.Channels[i])-d.TrimSamples]
			}
		}

		if _, err := codec.Write(filepath.Join(stemDir, string(category)+".wav"), stem); err != nil {
			return nil, err
		}
	}

	return []byte("Success"), nil
}

// demucs always writes stems with the model's two channels, whatever it was given
func toModelChannels(buffer audioentity.Buffer) audioentity.Buffer {
	switch {
	case buffer.ChannelCount() == 1:
		buffer.Channels = [][]float32{buffer.Channels[0], buffer.Channels[0]}
	case buffer.ChannelCount() > 2:
		buffer.Channels = buffer.Channels[:2]
	}

	return buffer
}

func scale(buffer audioentity.Buffer, gain float32) audioentity.Buffer {
	scaled := buffer.Clone()
	for _, channel := range scaled.Channels {
		for i := range channel {
			channel[i] *= gain
		}
	}

	return scaled
}
