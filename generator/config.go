// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"rel4kit.sh/manifest"
)

const (
	// ConfigHeaderPath is where the C configuration header is written,
	// relative to the kernel crate.
	ConfigHeaderPath = "kernel/src/platform/config.h"

	// ConfigRustPath is where the Rust configuration constants are written,
	// relative to the kernel crate.
	ConfigRustPath = "kernel/src/platform/config.rs"
)

// MergeDefinitions applies overrides of the form KEY=VALUE or KEY on top of the
// manifest definitions.  KEY=true sets the key without value and a bare KEY
// marks it as not set.  The result is sorted by key.
func MergeDefinitions(defs []manifest.Definition, overrides []string) []manifest.Definition {
	merged := make(map[string]*string, len(defs)+len(overrides))
	for _, def := range defs {
		merged[def.Key] = def.Value
	}

	for _, override := range overrides {
		key, value, ok := strings.Cut(override, "=")
		if key == "" {
			continue
		}

		switch {
		case !ok:
			merged[key] = nil
		case value == "true":
			empty := ""
			merged[key] = &empty
		default:
			v := value
			merged[key] = &v
		}
	}

	out := make([]manifest.Definition, 0, len(merged))
	for key, value := range merged {
		out = append(out, manifest.Definition{Key: key, Value: value})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})

	return out
}

// ConfigHeader renders defs as C preprocessor definitions.
func ConfigHeader(defs []manifest.Definition) []byte {
	var b bytes.Buffer

	b.WriteString("// This file is auto generated\n")

	for _, def := range defs {
		switch {
		case def.Value == nil:
			fmt.Fprintf(&b, "// CONFIG_%s not set\n", def.Key)
		case *def.Value == "":
			fmt.Fprintf(&b, "#define CONFIG_%s\n", def.Key)
		default:
			fmt.Fprintf(&b, "#define CONFIG_%s %s\n", def.Key, *def.Value)
		}
	}

	return b.Bytes()
}

// ConfigRust renders defs as Rust constants.  Keys without value become
// booleans, decimal and 0x-prefixed hexadecimal values become usize and
// anything else a string.
func ConfigRust(defs []manifest.Definition) []byte {
	var b bytes.Buffer

	b.WriteString("// This file is auto generated\n")

	for _, def := range defs {
		if def.Value == nil {
			fmt.Fprintf(&b, "// CONFIG_%s not set\n", def.Key)
			continue
		}

		value := *def.Value
		if value == "" {
			fmt.Fprintf(&b, "pub const CONFIG_%s: bool = true;\n", def.Key)
		} else if n, ok := parseUsize(value); ok {
			fmt.Fprintf(&b, "pub const CONFIG_%s: usize = %d;\n", def.Key, n)
		} else {
			fmt.Fprintf(&b, "pub const CONFIG_%s: &str = %s;\n", def.Key, strconv.Quote(value))
		}
	}

	return b.Bytes()
}

func parseUsize(s string) (uint64, bool) {
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		n, err := strconv.ParseUint(hex, 16, 64)
		return n, err == nil
	}

	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}
