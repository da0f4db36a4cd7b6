// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package version

import (
	"runtime/debug"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatBuildInfo renders the modules linked into the binary as a table.
func FormatBuildInfo(info *debug.BuildInfo) string {
	t := table.NewWriter()

	t.AppendHeader(table.Row{"module", "version", "replaced by"})
	t.SortBy([]table.SortBy{{Name: "module"}})

	for _, d := range info.Deps {
		var replace string
		if d.Replace != nil {
			replace = d.Replace.Path + " " + d.Replace.Version
		}

		t.AppendRow(table.Row{d.Path, d.Version, replace})
	}

	t.AppendFooter(table.Row{"go", info.GoVersion, ""})

	return t.Render() + "\n"
}
