// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package effect

import (
	"context"
)

// Direct runs every step on the calling goroutine, without suspension.
type Direct struct{}

var _ Effect = Direct{}

func (Direct) Name() string { return "direct" }

func (Direct) Blocking(_ context.Context, fn func()) error {
	fn()
	return nil
}

func (Direct) NewPermit() Permit {
	return &exclusivePermit{}
}
