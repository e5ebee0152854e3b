// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package manifest loads the per-platform hardware manifest from which the
// platform-specific kernel sources are generated.
package manifest

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"rel4kit.sh/log"
)

// Extension is the file extension of manifests.
const Extension = ".yml"

// Zone is a physical memory region available to the kernel, in manifest
// order.  Zones are neither deduplicated nor checked for overlap.
type Zone struct {
	Start uint64
	End   uint64
}

// Definition is a kernel configuration key.  A nil Value means the key is
// explicitly not set; an empty Value means it is set without a value.
type Definition struct {
	Key   string
	Value *string
}

// Manifest holds the facts about a platform consumed by the generators.
type Manifest struct {
	// Path is the file the manifest was loaded from.
	Path string

	// Arch is the linker output architecture, used verbatim.
	Arch string

	KernelStart uint64
	VMemOffset  uint64

	// StackBits is the log2 size of the per-core kernel stack, nil when the
	// manifest leaves it to the kernel default.
	StackBits *uint64

	Zones []Zone

	// Definitions are sorted by key.
	Definitions []Definition
}

// KernelOffset returns the virtual address the kernel window starts at.
func (m *Manifest) KernelOffset() uint64 {
	return m.VMemOffset
}

// StartAddr returns the virtual address the kernel image is linked at, i.e.
// VMemOffset + KernelStart.
func (m *Manifest) StartAddr() (uint64, error) {
	sum, carry := bits.Add64(m.VMemOffset, m.KernelStart, 0)
	if carry != 0 {
		return 0, &Error{
			Kind:  KindOverflow,
			Path:  m.Path,
			Field: "memory.vmem_offset + memory.kernel_start",
		}
	}

	return sum, nil
}

type rawZone struct {
	Start *uint64 `yaml:"start"`
	End   *uint64 `yaml:"end"`
}

type rawManifest struct {
	CPU *struct {
		Arch *string `yaml:"arch"`
	} `yaml:"cpu"`

	Memory *struct {
		KernelStart  *uint64    `yaml:"kernel_start"`
		VMemOffset   *uint64    `yaml:"vmem_offset"`
		StackBits    *uint64    `yaml:"stack_bits"`
		AvailMemZone *[]rawZone `yaml:"avail_mem_zone"`
	} `yaml:"memory"`

	Definitions yaml.Node `yaml:"definitions"`
}

// PathFor returns the location of the manifest of platform within dir.
func PathFor(dir, platform string) string {
	return filepath.Join(dir, platform+Extension)
}

// Load reads the manifest of platform from dir.
func Load(ctx context.Context, dir, platform string) (*Manifest, error) {
	return LoadFile(ctx, PathFor(dir, platform))
}

// LoadFile reads and validates the manifest at path.  The file is read afresh
// on every call.
func LoadFile(ctx context.Context, path string) (*Manifest, error) {
	log.G(ctx).WithField("manifest", path).Debug("loading")

	data, err := os.ReadFile(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, &Error{Kind: KindNotFound, Path: path, Err: err}
	} else if err != nil {
		return nil, &Error{Kind: KindParse, Path: path, Err: errors.Wrap(err, "reading")}
	}

	return Parse(path, data)
}

// Parse decodes a manifest from data.  path is only used in errors.
func Parse(path string, data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Kind: KindParse, Path: path, Err: errors.Wrap(err, "decoding")}
	}

	missing := func(field string) error {
		return &Error{Kind: KindMissingField, Path: path, Field: field}
	}

	if raw.CPU == nil || raw.CPU.Arch == nil {
		return nil, missing("cpu.arch")
	}
	if raw.Memory == nil || raw.Memory.KernelStart == nil {
		return nil, missing("memory.kernel_start")
	}
	if raw.Memory.VMemOffset == nil {
		return nil, missing("memory.vmem_offset")
	}
	if raw.Memory.AvailMemZone == nil {
		return nil, missing("memory.avail_mem_zone")
	}

	m := &Manifest{
		Path:        path,
		Arch:        *raw.CPU.Arch,
		KernelStart: *raw.Memory.KernelStart,
		VMemOffset:  *raw.Memory.VMemOffset,
		StackBits:   raw.Memory.StackBits,
		Zones:       make([]Zone, 0, len(*raw.Memory.AvailMemZone)),
	}

	for i, z := range *raw.Memory.AvailMemZone {
		if z.Start == nil {
			return nil, missing(fmt.Sprintf("memory.avail_mem_zone[%d].start", i))
		}
		if z.End == nil {
			return nil, missing(fmt.Sprintf("memory.avail_mem_zone[%d].end", i))
		}

		m.Zones = append(m.Zones, Zone{Start: *z.Start, End: *z.End})
	}

	defs, err := definitions(&raw.Definitions)
	if err != nil {
		return nil, &Error{Kind: KindParse, Path: path, Err: errors.Wrap(err, "decoding definitions")}
	}
	m.Definitions = defs

	return m, nil
}

// definitions flattens the optional definitions mapping.  Boolean true becomes
// a key set without value, false a key explicitly not set, and any other scalar
// keeps its literal text.
func definitions(node *yaml.Node) ([]Definition, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null") {
		return nil, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", node.Line)
	}

	defs := make([]Definition, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: definition %s must be a scalar", value.Line, key.Value)
		}

		def := Definition{Key: key.Value}

		switch value.ShortTag() {
		case "!!bool":
			var b bool
			if err := value.Decode(&b); err != nil {
				return nil, err
			}
			if b {
				empty := ""
				def.Value = &empty
			}
		case "!!null":
		default:
			v := value.Value
			def.Value = &v
		}

		defs = append(defs, def)
	}

	sort.SliceStable(defs, func(i, j int) bool {
		return defs[i].Key < defs[j].Key
	})

	return defs, nil
}
