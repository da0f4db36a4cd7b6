// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package scope

import (
	"context"

	"safecopy/internal/effect"
)

// Pair holds two values acquired together by Both.
type Pair[A, B any] struct {
	First  A
	Second B
	scope  *Scope
}

// Both acquires first then second. If second can not be acquired, first is
// released before the error is returned. Releasing the pair releases second,
// then first.
func Both[A, B any](first Resource[A], second Resource[B]) Resource[Pair[A, B]] {
	return Resource[Pair[A, B]]{
		Name: first.Name + "+" + second.Name,
		Acquire: func(ctx context.Context) (Pair[A, B], error) {
			s := New()

			a, err := Acquire(ctx, s, first)
			if err != nil {
				return Pair[A, B]{}, err
			}

			b, err := Acquire(ctx, s, second)
			if err != nil {
				// the error is more useful to the caller than any release failure.
				_ = s.Close(context.WithoutCancel(ctx))
				return Pair[A, B]{}, err
			}

			return Pair[A, B]{First: a, Second: b, scope: s}, nil
		},
		Release: func(p Pair[A, B]) effect.IO[effect.Unit] {
			return func(ctx context.Context) (effect.Unit, error) {
				return effect.Unit{}, p.scope.Close(ctx)
			}
		},
	}
}
