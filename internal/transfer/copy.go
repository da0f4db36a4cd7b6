// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package transfer copies a source file to a destination file with every
// handle released exactly once, whether the copy completes, fails, or is
// canceled. The same program runs on any effect.Effect.
package transfer

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"

	"safecopy/internal/effect"
	"safecopy/internal/pkg/flowrate"
	"safecopy/internal/pkg/mempool"
	"safecopy/internal/scope"
)

var buffers = mempool.NewSlicePool(BufferSize)

type Options struct {
	// Opener defaults to the host filesystem.
	Opener Opener
	// Monitor, if set, is fed with every write.
	Monitor *flowrate.Monitor
	// OnState is called on every state transition, on the goroutine running the copy.
	OnState func(State)
}

// Copy returns a program that copies source to destination and reports how many bytes it moved.
//
// Both handles and the relay run share one permit: the relay holds it for its
// whole run, and each close takes it too, so a close never overlaps a read or a write.
// The destination is released before the source.
func Copy(e effect.Effect, source, destination string, opts Options) effect.IO[int64] {
	opener := opts.Opener
	if opener == nil {
		opener = OS()
	}

	return func(ctx context.Context) (int64, error) {
		t := newTracker(e, source, destination, opts.OnState)
		g := newGuard(e)

		// every step touching buf has finished once scope.With returns.
		buf := buffers.Get()
		defer buffers.Put(buf)

		t.set(Acquiring)

		n, err := scope.With(openPair(g, opener, source, destination), func(h handles) effect.IO[int64] {
			relay := guarded(g, Relay(e, h.First, h.Second, buf, opts.Monitor))

			return effect.Guarantee(effect.Then(t.enter(Transferring), relay), t.enter(Releasing))
		})(ctx)

		switch {
		case err == nil:
			t.set(Completed)
			t.log.Debug().Msgf("copied %s", humanize.IBytes(uint64(n)))
		case canceledBy(ctx, err):
			t.set(Completed)
			t.log.Debug().Msg("copy canceled")
		default:
			t.set(Failed)
			t.log.Debug().Err(err).Msg("copy failed")
		}

		return n, err
	}
}

// Run copies source to destination, returning a Canceled outcome if ctx is
// done before the copy finishes.
func Run(ctx context.Context, e effect.Effect, source, destination string, opts Options) effect.Outcome[int64] {
	return effect.Run(ctx, Copy(e, source, destination, opts))
}

func canceledBy(ctx context.Context, err error) bool {
	ctxErr := ctx.Err()
	return ctxErr != nil && errors.Is(err, ctxErr)
}
