// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package fancymap prints a titled key-value list, used for build summaries.
package fancymap

import (
	"fmt"
	"io"
	"strings"

	"rel4kit.sh/iostreams"
)

// FancyMapEntry represents one item in the fancy list.
type FancyMapEntry struct {
	Key   string
	Value string
	Right string
}

// PrintFancyMap writes title followed by the entries to w, with keys, values
// and right-hand annotations aligned in columns.  The bullet of the title is
// green on success and red otherwise.
func PrintFancyMap(w io.Writer, cs *iostreams.ColorScheme, title string, success bool, entries ...FancyMapEntry) {
	keyPad, valPad := 0, 0

	for _, entry := range entries {
		if newLen := len(entry.Key) + 1; newLen > keyPad {
			keyPad = newLen
		}
		if newLen := len(entry.Value); newLen > valPad {
			valPad = newLen
		}
	}

	bullet := cs.Red("●")
	if success {
		bullet = cs.Green("●")
	}

	fmt.Fprintf(w, "\n%s%s%s %s\n %s\n", cs.Gray("["), bullet, cs.Gray("]"), title, cs.Gray("│"))

	for i, entry := range entries {
		anchor := "├"
		if i == len(entries)-1 {
			anchor = "└"
		}

		line := fmt.Sprintf(" %s %s: %s",
			cs.Gray(anchor+strings.Repeat("─", keyPad-len(entry.Key))),
			cs.Gray(entry.Key),
			entry.Value,
		)
		if entry.Right != "" {
			line += strings.Repeat(" ", valPad-len(entry.Value)+1) + entry.Right
		}

		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
}
