// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package transfer

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"

	"safecopy/internal/effect"
)

// guard serializes the relay run and the closes of one transfer behind a single
// permit, so a handle is never closed while it is being read or written.
type guard struct {
	e      effect.Effect
	permit effect.Permit
}

func newGuard(e effect.Effect) *guard {
	return &guard{e: e, permit: e.NewPermit()}
}

func guarded[A any](g *guard, step effect.IO[A]) effect.IO[A] {
	return effect.WithPermit(g.permit, step)
}

// close returns a release step for c. However many times the step runs, c.Close
// is called at most once. Close errors are logged and swallowed.
//
// If the effect can not run the step at all, c is closed on the calling
// goroutine instead, a handle is never left open.
func (g *guard) close(name string, c io.Closer) effect.IO[effect.Unit] {
	var closed atomic.Bool

	closeOnce := func() error {
		if !closed.CompareAndSwap(false, true) {
			return nil
		}

		return c.Close()
	}

	return guarded(g, func(ctx context.Context) (effect.Unit, error) {
		var err error

		_, bErr := effect.Delay(g.e, func() (effect.Unit, error) {
			err = closeOnce()
			return effect.Unit{}, nil
		})(ctx)
		if bErr != nil {
			log.Warn().Err(bErr).Str("handle", name).Msg("failed to schedule release, closing inline")
			err = closeOnce()
		}

		if err != nil {
			log.Warn().Err(&ReleaseError{Name: name, Err: err}).Msg("failed to release handle")
		}

		return effect.Unit{}, nil
	})
}
