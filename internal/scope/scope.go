// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package scope pairs acquire steps with release steps and composes them, so
// that every acquired value is released exactly once, in reverse acquisition
// order, however the enclosing program ends.
package scope

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"safecopy/internal/effect"
)

// Resource describes how to acquire a value and how to give it back.
type Resource[A any] struct {
	Acquire effect.IO[A]
	Release func(A) effect.IO[effect.Unit]
	Name    string
}

func Make[A any](name string, acquire effect.IO[A], release func(A) effect.IO[effect.Unit]) Resource[A] {
	return Resource[A]{Name: name, Acquire: acquire, Release: release}
}

// Scope records release steps in acquisition order.
type Scope struct {
	releases []release
	m        sync.Mutex
	closed   bool
}

type release struct {
	fn   effect.IO[effect.Unit]
	name string
}

func New() *Scope {
	return &Scope{}
}

// Acquire runs r.Acquire and registers its release in s.
// Cancellation of ctx is checked before acquiring.
func Acquire[A any](ctx context.Context, s *Scope, r Resource[A]) (A, error) {
	a, err := acquire(ctx, r)
	if err != nil {
		return a, err
	}

	if err := s.push(r.Name, r.Release(a)); err != nil {
		// scope was closed concurrently, give the value back right away.
		_, _ = r.Release(a)(context.WithoutCancel(ctx))
		var zero A
		return zero, err
	}

	return a, nil
}

func acquire[A any](ctx context.Context, r Resource[A]) (A, error) {
	var zero A

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	a, err := r.Acquire(ctx)
	if err != nil {
		return zero, err
	}

	log.Trace().Str("resource", r.Name).Msg("acquired")

	return a, nil
}

var ErrClosed = errors.New("scope is already closed")

func (s *Scope) push(name string, fn effect.IO[effect.Unit]) error {
	s.m.Lock()
	defer s.m.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.releases = append(s.releases, release{name: name, fn: fn})

	return nil
}

// Len is the number of values currently held by s.
func (s *Scope) Len() int {
	s.m.Lock()
	defer s.m.Unlock()

	return len(s.releases)
}

// Close runs every registered release in reverse order. Each one runs once even
// if Close is called again, and a failing release does not stop the others.
func (s *Scope) Close(ctx context.Context) error {
	s.m.Lock()
	releases := s.releases
	s.releases = nil
	s.closed = true
	s.m.Unlock()

	var errs []error
	for i := len(releases) - 1; i >= 0; i-- {
		r := releases[i]
		if _, err := r.fn(ctx); err != nil {
			errs = append(errs, err)
		}
		log.Trace().Str("resource", r.name).Msg("released")
	}

	return errors.Join(errs...)
}

// With acquires r, passes it to use, and releases it when use is done,
// however use ends.
func With[A, B any](r Resource[A], use func(A) effect.IO[B]) effect.IO[B] {
	return effect.Bracket(
		func(ctx context.Context) (A, error) { return acquire(ctx, r) },
		use,
		func(a A) effect.IO[effect.Unit] {
			return func(ctx context.Context) (effect.Unit, error) {
				u, err := r.Release(a)(ctx)
				log.Trace().Str("resource", r.Name).Msg("released")
				return u, err
			}
		},
	)
}
