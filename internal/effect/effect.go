// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package effect is a small effect layer for programs that must run the same way
// on the calling goroutine, on a worker pool, or under a scheduler that may cancel
// them at any moment.
//
// A program is an IO value. Nothing happens until it is run with a context, and
// all blocking work inside it goes through the Effect it was built with.
package effect

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

// Unit is the result of a step that only matters for its side effects.
type Unit struct{}

// IO is a suspended computation producing A.
type IO[A any] func(ctx context.Context) (A, error)

// Effect is what a program needs from the execution model hosting it.
type Effect interface {
	Name() string

	// Blocking runs fn at a suspension point and waits for it.
	// Once fn has started it always runs to completion,
	// cancellation is only observed before fn starts.
	Blocking(ctx context.Context, fn func()) error

	// NewPermit returns a new single slot exclusion primitive.
	NewPermit() Permit
}

func Pure[A any](a A) IO[A] {
	return func(context.Context) (A, error) {
		return a, nil
	}
}

func Fail[A any](err error) IO[A] {
	return func(context.Context) (A, error) {
		var zero A
		return zero, err
	}
}

// Delay suspends a side-effecting step. It is a cancellation point.
func Delay[A any](e Effect, fn func() (A, error)) IO[A] {
	return func(ctx context.Context) (A, error) {
		var (
			a   A
			err error
		)

		if cErr := ctx.Err(); cErr != nil {
			return a, cErr
		}

		if bErr := e.Blocking(ctx, func() { a, err = fn() }); bErr != nil {
			var zero A
			return zero, bErr
		}

		return a, err
	}
}

func FlatMap[A, B any](io IO[A], f func(A) IO[B]) IO[B] {
	return func(ctx context.Context) (B, error) {
		a, err := io(ctx)
		if err != nil {
			var zero B
			return zero, err
		}

		return f(a)(ctx)
	}
}

func Map[A, B any](io IO[A], f func(A) B) IO[B] {
	return FlatMap(io, func(a A) IO[B] { return Pure(f(a)) })
}

// Then runs a, drops its result, and runs b.
func Then[A, B any](a IO[A], b IO[B]) IO[B] {
	return FlatMap(a, func(A) IO[B] { return b })
}

// Next is the result of one Loop iteration.
type Next[S any] struct {
	State S
	Done  bool
}

func Continue[S any](s S) Next[S] { return Next[S]{State: s} }

func Stop[S any](s S) Next[S] { return Next[S]{State: s, Done: true} }

// Loop runs step until it reports Done, threading the state through every
// iteration. It runs in constant stack space and checks ctx before each iteration.
func Loop[S any](init S, step func(S) IO[Next[S]]) IO[S] {
	return func(ctx context.Context) (S, error) {
		s := init
		for {
			if err := ctx.Err(); err != nil {
				var zero S
				return zero, err
			}

			next, err := step(s)(ctx)
			if err != nil {
				var zero S
				return zero, err
			}

			if next.Done {
				return next.State, nil
			}

			s = next.State
		}
	}
}

// Guarantee runs finalizer after io on every exit path: success, error,
// cancellation and panic. The finalizer gets a context that is never canceled.
// An error from io wins over an error from finalizer, and a panic from io is
// raised again once finalizer is done.
func Guarantee[A any](io IO[A], finalizer IO[Unit]) IO[A] {
	return func(ctx context.Context) (A, error) {
		var (
			a   A
			err error
		)

		var pc panics.Catcher
		pc.Try(func() { a, err = io(ctx) })

		_, fErr := finalizer(context.WithoutCancel(ctx))

		pc.Repanic()

		if err != nil {
			var zero A
			return zero, err
		}

		if fErr != nil {
			var zero A
			return zero, fErr
		}

		return a, nil
	}
}

// Bracket acquires a resource, uses it, and always releases it if acquire succeeded.
func Bracket[A, B any](acquire IO[A], use func(A) IO[B], release func(A) IO[Unit]) IO[B] {
	return FlatMap(acquire, func(a A) IO[B] {
		return Guarantee(use(a), release(a))
	})
}

// WithPermit runs io while holding p. The permit is given back even if io fails.
func WithPermit[A any](p Permit, io IO[A]) IO[A] {
	return func(ctx context.Context) (A, error) {
		if err := p.Acquire(ctx); err != nil {
			var zero A
			return zero, err
		}
		defer p.Release()

		return io(ctx)
	}
}
