// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package effect

import (
	"context"
	"errors"
)

type Status uint8

const (
	Succeeded Status = iota
	Errored
	Canceled
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Errored:
		return "errored"
	case Canceled:
		return "canceled"
	}

	return "unknown"
}

// Outcome is how a run ended.
// Value is only meaningful for Succeeded, Err is nil only for Succeeded.
type Outcome[A any] struct {
	Value  A
	Err    error
	Status Status
}

func (o Outcome[A]) IsCanceled() bool { return o.Status == Canceled }

// Run interprets io. An error caused by ctx itself being done is reported as
// Canceled rather than Errored.
func Run[A any](ctx context.Context, io IO[A]) Outcome[A] {
	a, err := io(ctx)
	return outcome(ctx, a, err)
}

func outcome[A any](ctx context.Context, a A, err error) Outcome[A] {
	if err == nil {
		return Outcome[A]{Value: a, Status: Succeeded}
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return Outcome[A]{Err: context.Cause(ctx), Status: Canceled}
	}

	return Outcome[A]{Err: err, Status: Errored}
}
