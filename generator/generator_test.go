// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rel4kit.sh/manifest"
)

func riscvManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Path:        "spike.yml",
		Arch:        "riscv",
		KernelStart: 0x80000000,
		VMemOffset:  0xFFFFFFFF00000000,
		Zones: []manifest.Zone{
			{Start: 0x80000000, End: 0x88000000},
		},
	}
}

func TestHex(t *testing.T) {
	testCases := []struct {
		in   uint64
		want string
	}{
		{in: 0, want: "0x0"},
		{in: 0x1, want: "0x1"},
		{in: 0xABCDEF, want: "0xabcdef"},
		{in: 0xffffffffffffffff, want: "0xffffffffffffffff"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Hex(tc.in))
		})
	}
}

func TestLinker(t *testing.T) {
	got, err := Linker(riscvManifest())
	require.NoError(t, err)

	want := "# This file is auto generated\n" +
		"OUTPUT_ARCH(riscv)\n" +
		"\n" +
		"KERNEL_OFFSET = 0xffffffff00000000;\n" +
		"START_ADDR = 0xffffffff80000000;\n" +
		"\n" +
		"INCLUDE kernel/src/arch/linker.ld.in\n"

	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("linker script mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkerOverflow(t *testing.T) {
	m := riscvManifest()
	m.KernelStart = 0x100000000

	_, err := Linker(m)
	require.Error(t, err)
	assert.True(t, manifest.IsKind(err, manifest.KindOverflow))
}

func TestRegions(t *testing.T) {
	m := riscvManifest()
	m.Zones = append(m.Zones, manifest.Zone{Start: 0x0, End: 0x1000})

	want := "// This file is auto generated\n" +
		"use crate::structures::p_region_t;\n" +
		"\n" +
		"#[link_section = \".boot.bss\"]\n" +
		"pub static avail_p_regs: [p_region_t; 2] = [\n" +
		"    p_region_t {\n" +
		"       start: 0x80000000,\n" +
		"       end: 0x88000000\n" +
		"    },\n" +
		"    p_region_t {\n" +
		"       start: 0x0,\n" +
		"       end: 0x1000\n" +
		"    },\n" +
		"];\n"

	if diff := cmp.Diff(want, string(Regions(m))); diff != "" {
		t.Errorf("region table mismatch (-want +got):\n%s", diff)
	}
}

func TestRegionsEmpty(t *testing.T) {
	m := riscvManifest()
	m.Zones = nil

	assert.Contains(t, string(Regions(m)), "[p_region_t; 0] = [\n];\n")
}

func TestConfig(t *testing.T) {
	twelve, empty, name := "12", "", "riscv64"
	defs := MergeDefinitions([]manifest.Definition{
		{Key: "KERNEL_STACK_BITS", Value: &twelve},
		{Key: "HAVE_FPU", Value: &empty},
		{Key: "ARCH", Value: &name},
		{Key: "KERNEL_MCS", Value: nil},
	}, []string{
		"KERNEL_MCS=true",
		"MAX_NUM_NODES=4",
		"PADDR_BASE=0x80000000",
		"HAVE_FPU",
	})

	wantHeader := "// This file is auto generated\n" +
		"#define CONFIG_ARCH riscv64\n" +
		"// CONFIG_HAVE_FPU not set\n" +
		"#define CONFIG_KERNEL_MCS\n" +
		"#define CONFIG_KERNEL_STACK_BITS 12\n" +
		"#define CONFIG_MAX_NUM_NODES 4\n" +
		"#define CONFIG_PADDR_BASE 0x80000000\n"

	wantRust := "// This file is auto generated\n" +
		"pub const CONFIG_ARCH: &str = \"riscv64\";\n" +
		"// CONFIG_HAVE_FPU not set\n" +
		"pub const CONFIG_KERNEL_MCS: bool = true;\n" +
		"pub const CONFIG_KERNEL_STACK_BITS: usize = 12;\n" +
		"pub const CONFIG_MAX_NUM_NODES: usize = 4;\n" +
		"pub const CONFIG_PADDR_BASE: usize = 2147483648;\n"

	if diff := cmp.Diff(wantHeader, string(ConfigHeader(defs))); diff != "" {
		t.Errorf("config header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRust, string(ConfigRust(defs))); diff != "" {
		t.Errorf("config constants mismatch (-want +got):\n%s", diff)
	}
}

func mkKernelTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kernel", "src", "arch"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "kernel", "src", "platform"), 0o755))

	return root
}

func TestGenerateIsIdempotent(t *testing.T) {
	root := mkKernelTree(t)
	g := &Generator{Root: root, WithConfig: true, Overrides: []string{"FASTPATH=true"}}

	paths, err := g.Generate(context.Background(), riscvManifest())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	first := map[string][]byte{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		first[p] = data
	}

	_, err = g.Generate(context.Background(), riscvManifest())
	require.NoError(t, err)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, first[p], data, p)
	}

	entries, err := os.ReadDir(filepath.Join(root, "kernel", "src", "platform"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".dev_gen.rs.", "temporary file left behind")
	}
}

func TestGenerateWritesNothingOnError(t *testing.T) {
	root := mkKernelTree(t)
	m := riscvManifest()
	m.VMemOffset = 0xffffffffffffffff

	_, err := (&Generator{Root: root}).Generate(context.Background(), m)
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(root, LinkerPath))
	assert.NoFileExists(t, filepath.Join(root, RegionsPath))
}

func TestGenerateMissingDirectory(t *testing.T) {
	_, err := (&Generator{Root: t.TempDir()}).Generate(context.Background(), riscvManifest())
	assert.Error(t, err)
}

func TestGenerateKeepsArtifactsInSync(t *testing.T) {
	root := t.TempDir()
	arch := filepath.Join(root, "kernel", "src", "arch")
	require.NoError(t, os.MkdirAll(arch, 0o755))

	linker := filepath.Join(root, LinkerPath)
	require.NoError(t, os.WriteFile(linker, []byte("stale\n"), 0o644))

	// The platform directory is missing so the region table cannot be staged.
	paths, err := (&Generator{Root: root}).Generate(context.Background(), riscvManifest())
	require.Error(t, err)
	assert.Empty(t, paths)

	data, err := os.ReadFile(linker)
	require.NoError(t, err)
	assert.Equal(t, "stale\n", string(data))

	entries, err := os.ReadDir(arch)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFilesStagesBeforeReplacing(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "missing", "second")
	require.NoError(t, os.WriteFile(first, []byte("old"), 0o644))

	_, err := WriteFiles(map[string][]byte{
		first:  []byte("new"),
		second: []byte("new"),
	}, []string{first, second})
	require.Error(t, err)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ld")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, WriteFile(path, []byte("fresh\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
