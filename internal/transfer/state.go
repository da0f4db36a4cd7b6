// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package transfer

import (
	"context"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/atomic"

	"safecopy/internal/effect"
)

type State uint8

//go:generate stringer -type=State
const (
	Idle State = iota
	Acquiring
	Transferring
	Releasing
	Completed
	Failed
)

type tracker struct {
	log     zerolog.Logger
	onState func(State)
	state   atomic.Uint32
}

func newTracker(e effect.Effect, source, destination string, onState func(State)) *tracker {
	return &tracker{
		log: log.With().
			Str("effect", e.Name()).
			Str("source", source).
			Str("destination", destination).
			Logger(),
		onState: onState,
	}
}

func (t *tracker) set(s State) {
	prev := State(t.state.Swap(uint32(s)))
	t.log.Trace().Msgf("state %s -> %s", color.BlueString(prev.String()), color.GreenString(s.String()))

	if t.onState != nil {
		t.onState(s)
	}
}

func (t *tracker) enter(s State) effect.IO[effect.Unit] {
	return func(context.Context) (effect.Unit, error) {
		t.set(s)
		return effect.Unit{}, nil
	}
}
