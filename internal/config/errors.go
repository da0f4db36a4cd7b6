// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config

import "errors"

var (
	errNegativeDuration    = errors.New("duration must not be negative")
	errNonPositiveInterval = errors.New("progress-interval must be positive")
)
