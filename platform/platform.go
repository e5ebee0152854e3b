// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package platform enumerates the hardware targets the reL4 kernel can be built
// for, along with the facts the toolchains need about each of them.
package platform

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupported is returned when a platform name is not one of Platforms().
var ErrUnsupported = errors.New("unsupported platform")

type Platform string

const (
	PlatformUnknown     = Platform("")
	PlatformSpike       = Platform("spike")
	PlatformQEMUArmVirt = Platform("qemu-arm-virt")
)

// Arch is the processor architecture of a platform.
type Arch string

const (
	ArchRISCV64 = Arch("riscv64")
	ArchAArch64 = Arch("aarch64")
)

type details struct {
	arch   Arch
	triple string
}

var supported = map[Platform]details{
	PlatformSpike: {
		arch:   ArchRISCV64,
		triple: "riscv64gc-unknown-none-elf",
	},
	PlatformQEMUArmVirt: {
		arch:   ArchAArch64,
		triple: "aarch64-unknown-none-softfloat",
	},
}

// String implements fmt.Stringer
func (p Platform) String() string {
	return string(p)
}

// Valid returns true if the platform is supported.
func (p Platform) Valid() bool {
	_, ok := supported[p]
	return ok
}

// Arch returns the processor architecture of the platform, or the empty string
// if the platform is not supported.
func (p Platform) Arch() Arch {
	return supported[p].arch
}

// Triple returns the Rust target triple used to compile the kernel for the
// platform, or the empty string if the platform is not supported.
func (p Platform) Triple() string {
	return supported[p].triple
}

// IsAArch64 returns true for platforms which support secure monitor calls and
// the ARM user-space register exports.
func (p Platform) IsAArch64() bool {
	return p.Arch() == ArchAArch64
}

// PlatformByName returns the platform for a given name.  If the name is not
// known, an error wrapping ErrUnsupported is returned along with the name
// unchanged.
func PlatformByName(name string) (Platform, error) {
	p := Platform(name)
	if !p.Valid() {
		return p, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupported, name, Platforms())
	}

	return p, nil
}

// Platforms returns all the supported platforms, sorted by name.
func Platforms() []Platform {
	platforms := make([]Platform, 0, len(supported))
	for p := range supported {
		platforms = append(platforms, p)
	}

	sort.Slice(platforms, func(i, j int) bool {
		return platforms[i] < platforms[j]
	})

	return platforms
}
