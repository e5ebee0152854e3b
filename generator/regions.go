// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generator

import (
	"bytes"
	"fmt"

	"rel4kit.sh/manifest"
)

// RegionsPath is where the memory-region table is written, relative to the
// kernel crate.
const RegionsPath = "kernel/src/platform/dev_gen.rs"

// Regions renders the table of available physical memory regions of m, one
// record per zone in manifest order.
func Regions(m *manifest.Manifest) []byte {
	var b bytes.Buffer

	b.WriteString("// This file is auto generated\n")
	b.WriteString("use crate::structures::p_region_t;\n\n")
	b.WriteString("#[link_section = \".boot.bss\"]\n")
	fmt.Fprintf(&b, "pub static avail_p_regs: [p_region_t; %d] = [\n", len(m.Zones))

	for _, zone := range m.Zones {
		b.WriteString("    p_region_t {\n")
		fmt.Fprintf(&b, "       start: %s,\n", Hex(zone.Start))
		fmt.Fprintf(&b, "       end: %s\n", Hex(zone.End))
		b.WriteString("    },\n")
	}

	b.WriteString("];\n")

	return b.Bytes()
}
