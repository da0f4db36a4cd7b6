// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

//go:build tools

// Package tools pins the versions of the binaries used by go:generate and CI.
//
//	go generate ./...                      # stringer for transfer.State
//	go test -json ./... | tparse           # readable test summary
//	gotestsum -- -race ./...
package tools

import (
	_ "github.com/dkorunic/betteralign/cmd/betteralign"
	_ "github.com/mfridman/tparse"
	_ "golang.org/x/tools/cmd/stringer"
	_ "golang.org/x/vuln/cmd/govulncheck"
	_ "gotest.tools/gotestsum"
)
