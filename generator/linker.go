// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package generator renders the platform-specific kernel sources, a linker
// script fragment, a memory-region table and optionally the configuration
// constants, from a platform manifest.
package generator

import (
	"bytes"
	"fmt"

	"rel4kit.sh/manifest"
)

const (
	// LinkerPath is where the linker script fragment is written, relative to
	// the kernel crate.
	LinkerPath = "kernel/src/arch/linker_gen.ld"

	// LinkerInclude is the architecture-independent linker script the
	// fragment includes.
	LinkerInclude = "kernel/src/arch/linker.ld.in"
)

// Hex renders v as a lowercase 0x-prefixed literal without leading zeros.
func Hex(v uint64) string {
	return fmt.Sprintf("%#x", v)
}

// Linker renders the linker script fragment of m.
func Linker(m *manifest.Manifest) ([]byte, error) {
	start, err := m.StartAddr()
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer

	b.WriteString("# This file is auto generated\n")
	fmt.Fprintf(&b, "OUTPUT_ARCH(%s)\n\n", m.Arch)
	fmt.Fprintf(&b, "KERNEL_OFFSET = %s;\n", Hex(m.KernelOffset()))
	fmt.Fprintf(&b, "START_ADDR = %s;\n\n", Hex(start))
	fmt.Fprintf(&b, "INCLUDE %s\n", LinkerInclude)

	return b.Bytes(), nil
}
