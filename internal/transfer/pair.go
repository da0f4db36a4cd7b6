// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package transfer

import (
	"io"

	"safecopy/internal/effect"
	"safecopy/internal/scope"
)

type handles = scope.Pair[io.ReadCloser, io.WriteCloser]

// openPair opens the source first, so a missing source never creates the destination.
func openPair(g *guard, o Opener, source, destination string) scope.Resource[handles] {
	src := scope.Make("source",
		effect.Delay(g.e, func() (io.ReadCloser, error) {
			r, err := o.OpenSource(source)
			if err != nil {
				return nil, &AcquisitionError{Role: "source", Path: source, Err: err}
			}

			return r, nil
		}),
		func(r io.ReadCloser) effect.IO[effect.Unit] { return g.close("source", r) },
	)

	dst := scope.Make("destination",
		effect.Delay(g.e, func() (io.WriteCloser, error) {
			w, err := o.CreateDestination(destination)
			if err != nil {
				return nil, &AcquisitionError{Role: "destination", Path: destination, Err: err}
			}

			return w, nil
		}),
		func(w io.WriteCloser) effect.IO[effect.Unit] { return g.close("destination", w) },
	)

	return scope.Both(src, dst)
}
