// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package effect

import (
	"context"

	"github.com/sourcegraph/conc"
)

// Fiber is a program running on its own goroutine.
// It can be canceled from any goroutine.
type Fiber[A any] struct {
	cancel  context.CancelFunc
	done    chan struct{}
	wg      conc.WaitGroup
	outcome Outcome[A]
}

// Start runs io asynchronously. The fiber is canceled when ctx is.
func Start[A any](ctx context.Context, io IO[A]) *Fiber[A] {
	ctx, cancel := context.WithCancel(ctx)

	f := &Fiber[A]{cancel: cancel, done: make(chan struct{})}

	f.wg.Go(func() {
		defer close(f.done)
		f.outcome = Run(ctx, io)
	})

	return f
}

// Cancel requests cancellation. It does not wait for the fiber to stop.
func (f *Fiber[A]) Cancel() {
	f.cancel()
}

func (f *Fiber[A]) Done() <-chan struct{} {
	return f.done
}

// Join waits for the fiber. A panic inside the fiber is reported as Errored.
func (f *Fiber[A]) Join() Outcome[A] {
	r := f.wg.WaitAndRecover()

	// release resources of the derived context.
	f.cancel()

	if r != nil {
		return Outcome[A]{Err: r.AsError(), Status: Errored}
	}

	return f.outcome
}
