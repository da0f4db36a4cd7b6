// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

// Package version reports which safecopy build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/samber/lo"
)

const (
	MAJOR = 0
	MINOR = 1
	PATCH = 0
)

// Revision can be set with -ldflags, it defaults to the vcs revision go embeds.
var Revision string

// Info describes the running binary.
type Info struct {
	Version   string
	Revision  string
	GoVersion string
	Platform  string
	Modified  bool
}

func Get() Info {
	info := Info{
		Version:   fmt.Sprintf("%d.%d.%d", MAJOR, MINOR, PATCH),
		Revision:  Revision,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Revision == "" {
					info.Revision = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	return info
}

// Print returns the banner shown by --version.
func Print() string {
	info := Get()

	v := info.Version
	if Dev {
		v += " (development)"
	}

	rev := info.Revision
	if rev != "" && info.Modified {
		rev += "-modified"
	}

	return strings.Join(lo.Compact([]string{
		"safecopy " + v,
		lo.Ternary(rev != "", "revision: "+rev, ""),
		"go:       " + info.GoVersion,
		"platform: " + info.Platform,
	}), "\n")
}
