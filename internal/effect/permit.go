// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package effect

import (
	"context"
	"errors"

	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// Permit is a single slot exclusion token.
type Permit interface {
	// Acquire waits for the permit. It fails only when ctx is done
	// (or, for permits that cannot wait, when the permit is taken).
	Acquire(ctx context.Context) error
	Release()
}

var ErrPermitHeld = errors.New("permit is already held")

// NewSemaphorePermit returns a permit whose Acquire suspends the caller until the slot
// is free or ctx is done.
func NewSemaphorePermit() Permit {
	return &semaphorePermit{sem: semaphore.NewWeighted(1)}
}

type semaphorePermit struct {
	sem *semaphore.Weighted
}

func (p *semaphorePermit) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

func (p *semaphorePermit) Release() {
	p.sem.Release(1)
}

// exclusivePermit never waits. With a single goroutine, waiting for a taken
// permit can only mean a deadlock, so it reports ErrPermitHeld instead.
type exclusivePermit struct {
	held atomic.Bool
}

func (p *exclusivePermit) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !p.held.CompareAndSwap(false, true) {
		return ErrPermitHeld
	}

	return nil
}

func (p *exclusivePermit) Release() {
	if !p.held.CompareAndSwap(true, false) {
		panic("effect: release of a permit that is not held")
	}
}
