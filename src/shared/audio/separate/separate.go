package separate

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/cockroachdb/errors/domains"
	"golang.org/x/sync/semaphore"

	"github.com/veedubyou/instrumental-be/src/shared/audio/entity"
	"github.com/veedubyou/instrumental-be/src/shared/audio/mix"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/errors/mark"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// ModelRate is the only sample rate the separation model accepts
const ModelRate = 44100

var SeparationMark = domains.New("separation_failure")

var _ Separator = &Adapter{}

//counterfeiter:generate . Separator
type Separator interface {
	Separate(ctx context.Context, buffer audioentity.Buffer) (audioentity.StemSet, error)
}

// Backend is the model itself. Init is expensive and is called at most once
// successfully per Adapter.
//
//counterfeiter:generate . Backend
type Backend interface {
	Init(ctx context.Context) error
	Separate(ctx context.Context, buffer audioentity.Buffer) (map[audioentity.Category]audioentity.Buffer, error)
	Close() error
}

// Adapter guards a Backend: it enforces the input rate, initializes the backend lazily,
// caps concurrent inference and checks that what comes back is a complete, aligned StemSet.
type Adapter struct {
	backend  Backend
	slots    *semaphore.Weighted
	capacity int64

	lifecycleLock sync.Mutex
	initialized   bool
	closed        bool
}

func NewAdapter(backend Backend, maxConcurrent int) *Adapter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Adapter{
		backend:  backend,
		slots:    semaphore.NewWeighted(int64(maxConcurrent)),
		capacity: int64(maxConcurrent),
	}
}

func (a *Adapter) Separate(ctx context.Context, buffer audioentity.Buffer) (audioentity.StemSet, error) {
	if buffer.SampleRate != ModelRate {
		panic(fmt.Sprintf("separation requires %d Hz input but got %d Hz, resample before separating", ModelRate, buffer.SampleRate))
	}

	if err := buffer.Validate(); err != nil {
		return audioentity.StemSet{}, mark.Wrap(err, SeparationMark, "Input to separation is malformed")
	}

	if err := a.ensureInitialized(ctx); err != nil {
		return audioentity.StemSet{}, mark.Wrap(err, SeparationMark, "Separation model is unavailable")
	}

	if err := a.slots.Acquire(ctx, 1); err != nil {
		return audioentity.StemSet{}, mark.Wrap(err, SeparationMark, "Gave up waiting for a separation slot")
	}
	defer a.slots.Release(1)

	// Close may have come in while this call waited for a slot
	if a.isClosed() {
		return audioentity.StemSet{}, mark.Wrap(cerr.Error("Separation adapter has been closed"),
			SeparationMark, "Separation model is unavailable")
	}

	logger := log.WithFields(log.Fields{
		"channels": buffer.ChannelCount(),
		"samples":  buffer.Len(),
	})
	logger.Info("Running separation")

	stems, err := a.backend.Separate(ctx, buffer)
	if err != nil {
		return audioentity.StemSet{}, mark.Wrap(err, SeparationMark, "Separation backend failed")
	}

	stemSet, err := checkStems(buffer, stems)
	if err != nil {
		return audioentity.StemSet{}, err
	}

	stemSet.Each(func(category audioentity.Category, stem audioentity.Buffer) {
		logger.WithField("stem", category).WithField("peak", stem.Peak()).Debug("Separated stem")
	})
	logger.Info("Finished separation")

	return stemSet, nil
}

func checkStems(input audioentity.Buffer, stems map[audioentity.Category]audioentity.Buffer) (audioentity.StemSet, error) {
	if len(stems) != len(audioentity.Categories) {
		err := cerr.Field("stem_count", len(stems)).Error("Backend returned the wrong number of stems")
		return audioentity.StemSet{}, mark.Wrap(err, SeparationMark, "Separation output is incomplete")
	}

	for _, category := range audioentity.Categories {
		stem, ok := stems[category]
		if !ok {
			err := cerr.Field("category", category).Error("Backend did not return a stem")
			return audioentity.StemSet{}, mark.Wrap(err, SeparationMark, "Separation output is incomplete")
		}

		errctx := cerr.Fields(cerr.F{
			"category":       category,
			"stem_rate":      stem.SampleRate,
			"stem_channels":  stem.ChannelCount(),
			"stem_length":    stem.Len(),
			"input_channels": input.ChannelCount(),
			"input_length":   input.Len(),
		})

		if stem.SampleRate != ModelRate {
			return audioentity.StemSet{}, mark.Wrap(errctx.Error("Stem is not at the model rate"),
				SeparationMark, "Separation output is malformed")
		}

		if !stem.SameShape(input) {
			return audioentity.StemSet{}, mark.Wrap(errctx.Error("Stem is not time aligned with the input"),
				mix.MisalignedStemsMark, "Separation output is misaligned")
		}
	}

	stemSet, err := audioentity.NewStemSet(stems)
	if err != nil {
		return audioentity.StemSet{}, mark.Wrap(err, SeparationMark, "Separation output is malformed")
	}

	return stemSet, nil
}

func (a *Adapter) ensureInitialized(ctx context.Context) error {
	a.lifecycleLock.Lock()
	defer a.lifecycleLock.Unlock()

	if a.closed {
		return cerr.Error("Separation adapter has been closed")
	}

	if a.initialized {
		return nil
	}

	log.Info("Initializing separation backend")
	// a failed init is not remembered, the next call tries again
	if err := a.backend.Init(ctx); err != nil {
		return cerr.Wrap(err).Error("Failed to initialize separation backend")
	}

	a.initialized = true
	log.Info("Separation backend initialized")
	return nil
}

func (a *Adapter) isClosed() bool {
	a.lifecycleLock.Lock()
	defer a.lifecycleLock.Unlock()
	return a.closed
}

// Close tears the backend down. In flight separations are waited for, and
// anything still waiting for a slot is turned away.
func (a *Adapter) Close() error {
	a.lifecycleLock.Lock()
	if a.closed {
		a.lifecycleLock.Unlock()
		return nil
	}
	a.closed = true
	initialized := a.initialized
	a.lifecycleLock.Unlock()

	if !initialized {
		return nil
	}

	if err := a.slots.Acquire(context.Background(), a.capacity); err != nil {
		return cerr.Wrap(err).Error("Failed to drain separation slots")
	}
	defer a.slots.Release(a.capacity)

	if err := a.backend.Close(); err != nil {
		return cerr.Wrap(err).Error("Failed to close separation backend")
	}

	return nil
}
