// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package transfer

import (
	"fmt"
)

// AcquisitionError means the source or the destination could not be opened.
type AcquisitionError struct {
	Err  error
	Role string
	Path string
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("failed to open %s %q: %v", e.Role, e.Path, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// TransferError means a read or a write failed mid-copy.
type TransferError struct {
	Err error
	Op  string
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// ReleaseError is a failed close. It is logged and never returned to callers.
type ReleaseError struct {
	Err  error
	Name string
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("failed to close %s: %v", e.Name, e.Err)
}

func (e *ReleaseError) Unwrap() error { return e.Err }
