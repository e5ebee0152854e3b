// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package platform

import (
	"errors"
	"testing"
)

func TestPlatformByName(t *testing.T) {
	testCases := []struct {
		desc    string
		name    string
		arch    Arch
		triple  string
		aarch64 bool
	}{
		{
			desc:   "spike",
			name:   "spike",
			arch:   ArchRISCV64,
			triple: "riscv64gc-unknown-none-elf",
		},
		{
			desc:    "qemu-arm-virt",
			name:    "qemu-arm-virt",
			arch:    ArchAArch64,
			triple:  "aarch64-unknown-none-softfloat",
			aarch64: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			p, err := PlatformByName(tc.name)
			if err != nil {
				t.Fatal(err)
			}

			if p.Arch() != tc.arch {
				t.Errorf("Expected arch %q, got %q", tc.arch, p.Arch())
			}
			if p.Triple() != tc.triple {
				t.Errorf("Expected triple %q, got %q", tc.triple, p.Triple())
			}
			if p.IsAArch64() != tc.aarch64 {
				t.Errorf("Expected IsAArch64() %v, got %v", tc.aarch64, p.IsAArch64())
			}
		})
	}
}

func TestPlatformByNameUnsupported(t *testing.T) {
	p, err := PlatformByName("x86_64-pc")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Expected ErrUnsupported, got %v", err)
	}
	if p.Valid() || p.Triple() != "" || p.IsAArch64() {
		t.Errorf("Expected unsupported platform to carry no details")
	}
}

func TestPlatforms(t *testing.T) {
	got := Platforms()
	if len(got) != 2 || got[0] != PlatformQEMUArmVirt || got[1] != PlatformSpike {
		t.Errorf("Expected [qemu-arm-virt spike], got %v", got)
	}
}
