// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package version_test

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"safecopy/internal/version"
)

func TestPrint(t *testing.T) {
	t.Parallel()

	s := version.Print()
	require.True(t, strings.HasPrefix(s, "safecopy 0.1.0"), s)
	require.Contains(t, s, runtime.Version())
	require.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
	require.NotContains(t, s, "\n\n")
}

func TestFormatBuildInfo(t *testing.T) {
	t.Parallel()

	s := version.FormatBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.22.5",
		Deps: []*debug.Module{
			{Path: "github.com/rs/zerolog", Version: "v1.33.0"},
			{Path: "example.com/forked", Version: "v1.0.0", Replace: &debug.Module{Path: "../forked", Version: ""}},
		},
	})

	require.Contains(t, s, "github.com/rs/zerolog")
	require.Contains(t, s, "v1.33.0")
	require.Contains(t, s, "../forked")
	require.Contains(t, s, "go1.22.5")
	require.Less(t, strings.Index(s, "example.com/forked"), strings.Index(s, "github.com/rs/zerolog"), "sorted by module")
}
