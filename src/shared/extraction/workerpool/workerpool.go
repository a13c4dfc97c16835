package workerpool

import (
	"context"
	"sync/atomic"

	"github.com/apex/log"
	"golang.org/x/sync/semaphore"

	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
)

// Pool bounds how many extractions run at once. Callers beyond the limit wait
// for a slot or give up when their context ends.
type Pool struct {
	slots   *semaphore.Weighted
	size    int64
	active  atomic.Int64
	waiting atomic.Int64
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	return &Pool{
		slots: semaphore.NewWeighted(int64(size)),
		size:  int64(size),
	}
}

// Run waits for a free slot and then runs fn to completion. fn is never interrupted,
// it is expected to watch ctx itself.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	p.waiting.Add(1)
	err := p.slots.Acquire(ctx, 1)
	p.waiting.Add(-1)
	if err != nil {
		return cerr.Field("pool_size", p.size).Wrap(err).Error("Gave up waiting for a free worker")
	}
	defer p.slots.Release(1)

	active := p.active.Add(1)
	defer p.active.Add(-1)

	log.WithFields(log.Fields{
		"active":    active,
		"pool_size": p.size,
	}).Debug("Worker slot acquired")

	return fn(ctx)
}

type Stats struct {
	Size    int64 `json:"size"`
	Active  int64 `json:"active"`
	Waiting int64 `json:"waiting"`
}

func (p *Pool) Stats() Stats {
	return Stats{
		Size:    p.size,
		Active:  p.active.Load(),
		Waiting: p.waiting.Load(),
	}
}
