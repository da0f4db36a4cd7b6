// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package transfer

import (
	"errors"
	"io"

	"github.com/docker/go-units"

	"safecopy/internal/effect"
	"safecopy/internal/pkg/assert"
	"safecopy/internal/pkg/flowrate"
)

// BufferSize is the size of the buffer a transfer relays bytes through.
const BufferSize = 10 * units.KiB

type chunk struct {
	n   int
	eof bool
}

// Relay moves bytes from src to dst through buf until src reports io.EOF, and
// returns how many bytes were moved. Each read and each write is a cancellation
// point. On error the partial count is dropped.
func Relay(e effect.Effect, src io.Reader, dst io.Writer, buf []byte, monitor *flowrate.Monitor) effect.IO[int64] {
	return effect.Loop(int64(0), func(total int64) effect.IO[effect.Next[int64]] {
		return effect.FlatMap(read(e, src, buf), func(c chunk) effect.IO[effect.Next[int64]] {
			if c.n == 0 {
				if c.eof {
					return effect.Pure(effect.Stop(total))
				}

				// nothing read but not finished either, ask again.
				return effect.Pure(effect.Continue(total))
			}

			return effect.Map(write(e, dst, buf[:c.n], monitor), func(n int) effect.Next[int64] {
				if c.eof {
					return effect.Stop(total + int64(n))
				}

				return effect.Continue(total + int64(n))
			})
		})
	})
}

func read(e effect.Effect, src io.Reader, buf []byte) effect.IO[chunk] {
	return effect.Delay(e, func() (chunk, error) {
		n, err := src.Read(buf)
		assert.True(n >= 0 && n <= len(buf), "reader returned an invalid count")

		if err != nil {
			if errors.Is(err, io.EOF) {
				return chunk{n: n, eof: true}, nil
			}

			return chunk{}, &TransferError{Op: "read source", Err: err}
		}

		return chunk{n: n}, nil
	})
}

func write(e effect.Effect, dst io.Writer, p []byte, monitor *flowrate.Monitor) effect.IO[int] {
	return effect.Delay(e, func() (int, error) {
		n, err := dst.Write(p)
		if err != nil {
			return 0, &TransferError{Op: "write destination", Err: err}
		}

		if n != len(p) {
			return 0, &TransferError{Op: "write destination", Err: io.ErrShortWrite}
		}

		if monitor != nil {
			monitor.Update(n)
		}

		return n, nil
	})
}
