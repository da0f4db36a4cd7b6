// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package effect

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
	"github.com/trim21/errgo"
)

// Pool runs blocking steps on a dedicated worker pool, so they never occupy
// the goroutines that schedule other work. Callers wait for a step by
// parking on a channel.
type Pool struct {
	pool *ants.Pool
}

var _ Effect = (*Pool)(nil)

func NewPool(size int) (*Pool, error) {
	p, err := ants.NewPool(size, ants.WithPreAlloc(true), ants.WithExpiryDuration(time.Minute))
	if err != nil {
		return nil, errgo.Wrap(err, "failed to create worker pool")
	}

	return &Pool{pool: p}, nil
}

func (p *Pool) Name() string { return "pool" }

func (p *Pool) Blocking(ctx context.Context, fn func()) error {
	var (
		done      = make(chan struct{})
		skipped   bool
		recovered *panics.Recovered
	)

	err := p.pool.Submit(func() {
		defer close(done)

		// the task may have waited in queue for a free worker.
		if ctx.Err() != nil {
			skipped = true
			return
		}

		recovered = panics.Try(fn)
	})
	if err != nil {
		return errgo.Wrap(err, "failed to submit blocking step")
	}

	// a started step is never abandoned, even if ctx is canceled meanwhile.
	<-done

	if recovered != nil {
		panic(recovered)
	}

	if skipped {
		return ctx.Err()
	}

	return nil
}

func (p *Pool) NewPermit() Permit {
	return NewSemaphorePermit()
}

// Close waits up to timeout for running steps and stops the workers.
func (p *Pool) Close(timeout time.Duration) {
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		log.Warn().Err(err).Msg("worker pool did not stop in time")
	}
}

func (p *Pool) Running() int {
	return p.pool.Running()
}
