// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rel4kit.sh/generator"
	"rel4kit.sh/internal/errs"
	"rel4kit.sh/platform"
	"rel4kit.sh/toolchain"
)

const spikeManifest = `cpu:
  arch: riscv
memory:
  kernel_start: 0x80000000
  vmem_offset: 0xFFFFFFFF00000000
  avail_mem_zone:
    - start: 0x80000000
      end: 0x88000000
`

type recordingExecutor struct {
	root     string
	commands []*toolchain.Command
	failOn   toolchain.Kind

	// linkerAtMeta records whether the linker script existed when the meta
	// step started.
	linkerAtMeta bool
}

func (e *recordingExecutor) Execute(ctx context.Context, cmd *toolchain.Command) error {
	e.commands = append(e.commands, cmd)

	if cmd.Kind == toolchain.KindMeta {
		_, err := os.Stat(filepath.Join(e.root, generator.LinkerPath))
		e.linkerAtMeta = err == nil

		if err := os.WriteFile(filepath.Join(e.root, "build", "reL4"), []byte("kernel"), 0o644); err != nil {
			return err
		}
	}

	if cmd.Kind == e.failOn {
		return errors.New("boom")
	}

	return nil
}

func (e *recordingExecutor) kinds() []toolchain.Kind {
	kinds := make([]toolchain.Kind, 0, len(e.commands))
	for _, cmd := range e.commands {
		kinds = append(kinds, cmd.Kind)
	}
	return kinds
}

func newTestRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, dir := range []string{"platforms", "kernel/src/arch", "kernel/src/platform"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "platforms", "spike.yml"), []byte(spikeManifest), 0o644))

	return root
}

func newTestBuilder(t *testing.T, root string, executor Executor, opts ...BuilderOption) *Builder {
	t.Helper()

	b, err := NewBuilder(append([]BuilderOption{
		WithRoot(root),
		WithExecutor(executor),
		WithCheckout(func(context.Context, string, string) error {
			t.Fatal("unexpected checkout")
			return nil
		}),
	}, opts...)...)
	require.NoError(t, err)

	return b
}

func TestBuildRunsStepsInOrder(t *testing.T) {
	root := newTestRoot(t)
	executor := &recordingExecutor{root: root}
	b := newTestBuilder(t, root, executor)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "stale.o"), nil, 0o644))

	axes := toolchain.DefaultAxes(platform.PlatformSpike)
	axes.CPUs = 4
	axes.MCS = true

	result, err := b.Build(context.Background(), axes)
	require.NoError(t, err)

	assert.Equal(t, []toolchain.Kind{toolchain.KindNative, toolchain.KindMeta}, executor.kinds())
	assert.True(t, executor.linkerAtMeta)
	assert.Equal(t, []string{
		filepath.Join(root, generator.LinkerPath),
		filepath.Join(root, generator.RegionsPath),
	}, result.Generated)
	assert.Equal(t, []Artifact{{Name: "reL4", Size: 6}}, result.Artifacts)
	assert.True(t, result.Resolution.Multicore)
	assert.Equal(t, 4, result.Resolution.CPUs)
}

func TestBuildAbortsOnFailingStep(t *testing.T) {
	root := newTestRoot(t)
	executor := &recordingExecutor{root: root, failOn: toolchain.KindNative}
	b := newTestBuilder(t, root, executor)

	_, err := b.Build(context.Background(), toolchain.DefaultAxes(platform.PlatformSpike))
	require.Error(t, err)

	var terr *ToolchainError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, toolchain.KindNative, terr.Kind)
	assert.Equal(t, -1, terr.ExitCode)
	assert.True(t, errs.IsToolchainError(err))

	assert.Equal(t, []toolchain.Kind{toolchain.KindNative}, executor.kinds())
	assert.NoFileExists(t, filepath.Join(root, generator.LinkerPath))
}

func TestBuildRejectsInvalidAxesBeforeExecution(t *testing.T) {
	root := newTestRoot(t)
	executor := &recordingExecutor{root: root}
	b := newTestBuilder(t, root, executor)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))

	tests := []struct {
		name string
		axes toolchain.Axes
	}{
		{
			name: "unknown platform",
			axes: toolchain.Axes{Platform: platform.Platform("x86"), CPUs: 1},
		},
		{
			name: "no cpus",
			axes: toolchain.Axes{Platform: platform.PlatformSpike},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(context.Background(), tt.axes)
			require.Error(t, err)
			assert.True(t, errs.IsConfigurationError(err))
			assert.Empty(t, executor.commands)
			assert.DirExists(t, filepath.Join(root, "build"))
		})
	}
}

func TestBuildMissingManifestSkipsMeta(t *testing.T) {
	root := newTestRoot(t)
	require.NoError(t, os.Remove(filepath.Join(root, "platforms", "spike.yml")))

	executor := &recordingExecutor{root: root}
	b := newTestBuilder(t, root, executor)

	_, err := b.Build(context.Background(), toolchain.DefaultAxes(platform.PlatformSpike))
	require.Error(t, err)
	assert.True(t, errs.IsManifestError(err))
	assert.Equal(t, []toolchain.Kind{toolchain.KindNative}, executor.kinds())
}

func TestBuildBaselineChecksOut(t *testing.T) {
	root := newTestRoot(t)
	executor := &recordingExecutor{root: root}

	var checkedOut []string
	b := newTestBuilder(t, root, executor, WithCheckout(func(_ context.Context, dir, branch string) error {
		checkedOut = append(checkedOut, dir, branch)
		return nil
	}))

	axes := toolchain.DefaultAxes(platform.PlatformSpike)
	axes.Baseline = true
	axes.CPUs = 2

	result, err := b.Build(context.Background(), axes)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "..", "kernel"), toolchain.BaselineBranch}, checkedOut)
	assert.Equal(t, []toolchain.Kind{toolchain.KindMeta}, executor.kinds())
	assert.Empty(t, result.Generated)
	assert.Equal(t, 2, result.Resolution.CPUs)
}

func TestBuildBaselineCheckoutFailure(t *testing.T) {
	root := newTestRoot(t)
	executor := &recordingExecutor{root: root}
	b := newTestBuilder(t, root, executor, WithCheckout(func(context.Context, string, string) error {
		return errors.New("no such branch")
	}))

	axes := toolchain.DefaultAxes(platform.PlatformSpike)
	axes.Baseline = true

	_, err := b.Build(context.Background(), axes)
	require.Error(t, err)
	assert.True(t, errs.IsToolchainError(err))
	assert.Contains(t, err.Error(), "cd ../kernel && git checkout baseline")
	assert.Empty(t, executor.commands)
}

func TestBuildRustOnly(t *testing.T) {
	root := newTestRoot(t)
	executor := &recordingExecutor{root: root}
	b := newTestBuilder(t, root, executor, WithRustOnly(true), WithGenerate(false))

	result, err := b.Build(context.Background(), toolchain.DefaultAxes(platform.PlatformSpike))
	require.NoError(t, err)

	assert.Equal(t, []toolchain.Kind{toolchain.KindNative}, executor.kinds())
	assert.Contains(t, executor.commands[0].String(), "--bin")
	assert.Nil(t, result.Resolution.Meta)
	assert.Empty(t, result.Generated)
}

func TestBuildWithConfigAppliesMacros(t *testing.T) {
	root := newTestRoot(t)
	executor := &recordingExecutor{root: root}
	b := newTestBuilder(t, root, executor, WithConfigGeneration(true), WithFastpath(false))

	axes := toolchain.DefaultAxes(platform.PlatformSpike)
	axes.MCS = true

	result, err := b.Build(context.Background(), axes)
	require.NoError(t, err)
	assert.Len(t, result.Generated, 4)

	header, err := os.ReadFile(filepath.Join(root, generator.ConfigHeaderPath))
	require.NoError(t, err)
	assert.Contains(t, string(header), "#define CONFIG_KERNEL_MCS\n")
	assert.NotContains(t, string(header), "FASTPATH")
}

func TestPlanReadsStackBits(t *testing.T) {
	root := newTestRoot(t)
	manifest := strings.Replace(spikeManifest, "  vmem_offset:", "  stack_bits: 12\n  vmem_offset:", 1)
	require.NoError(t, os.WriteFile(filepath.Join(root, "platforms", "spike.yml"), []byte(manifest), 0o644))

	b := newTestBuilder(t, root, &recordingExecutor{root: root})

	res, err := b.Plan(context.Background(), toolchain.DefaultAxes(platform.PlatformSpike))
	require.NoError(t, err)
	assert.Equal(t, []string{"KERNEL_STACK_BITS=12", "FASTPATH=true"}, res.Macros)

	// Without a manifest the kernel default applies.
	require.NoError(t, os.Remove(filepath.Join(root, "platforms", "spike.yml")))
	res, err = b.Plan(context.Background(), toolchain.DefaultAxes(platform.PlatformSpike))
	require.NoError(t, err)
	assert.Equal(t, []string{"FASTPATH=true"}, res.Macros)
}

func TestBuildRejectsMalformedManifestBeforeExecution(t *testing.T) {
	root := newTestRoot(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "platforms", "spike.yml"), []byte("cpu: [\n"), 0o644))

	executor := &recordingExecutor{root: root}
	b := newTestBuilder(t, root, executor)

	_, err := b.Build(context.Background(), toolchain.DefaultAxes(platform.PlatformSpike))
	require.Error(t, err)
	assert.True(t, errs.IsManifestError(err))
	assert.Empty(t, executor.commands)
}

func TestSimulateCommand(t *testing.T) {
	b := newTestBuilder(t, t.TempDir(), &recordingExecutor{})

	tests := []struct {
		name  string
		cpus  int
		extra []string
		want  string
	}{
		{
			name: "single core",
			cpus: 1,
			want: "cd ./build && ./simulate",
		},
		{
			name: "multicore",
			cpus: 4,
			want: "cd ./build && ./simulate --cpu-num 4",
		},
		{
			name:  "extra arguments",
			cpus:  2,
			extra: []string{"--extra-qemu-args", "-s -S"},
			want:  "cd ./build && ./simulate --cpu-num 2 --extra-qemu-args -s -S",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axes := toolchain.DefaultAxes(platform.PlatformSpike)
			axes.CPUs = tt.cpus

			res, err := b.Plan(context.Background(), axes)
			require.NoError(t, err)

			cmd, err := b.SimulateCommand(res, tt.extra...)
			require.NoError(t, err)
			assert.Equal(t, toolchain.KindSimulate, cmd.Kind)
			assert.Equal(t, tt.want, cmd.String())
		})
	}
}

func TestClean(t *testing.T) {
	root := newTestRoot(t)
	b := newTestBuilder(t, root, &recordingExecutor{root: root})

	require.NoError(t, os.MkdirAll(filepath.Join(root, "build", "sub"), 0o755))
	require.NoError(t, b.Clean(context.Background()))
	assert.NoDirExists(t, filepath.Join(root, "build"))

	// Removing an absent directory is not an error.
	require.NoError(t, b.Clean(context.Background()))
}
