// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"rel4kit.sh/exec"
	"rel4kit.sh/generator"
	"rel4kit.sh/log"
	"rel4kit.sh/manifest"
	"rel4kit.sh/toolchain"
)

// DefaultManifestDir is where the platform manifests live inside the kernel
// crate.
const DefaultManifestDir = "platforms"

// Builder drives a full kernel build: it resolves the axes, recreates the
// build directory, runs the native build (or the baseline checkout), generates
// the platform sources and finally runs the meta-build.
type Builder struct {
	root        string
	buildDir    string
	kernelDir   string
	manifestDir string
	generate    bool
	withConfig  bool
	fastpath    bool
	rustOnly    bool
	executor    Executor
	checkout    CheckoutFunc
}

// Artifact is a file left in the build directory by a build.
type Artifact struct {
	Name string
	Size int64
}

// Result describes a successful build.
type Result struct {
	Resolution *toolchain.Resolution

	// Generated lists the written source files, joined with the root.
	Generated []string

	// Artifacts are the regular files of the build directory, sorted by name.
	Artifacts []Artifact
}

// NewBuilder returns a Builder rooted at the current directory unless
// configured otherwise.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		root:        ".",
		buildDir:    toolchain.DefaultBuildDir,
		kernelDir:   toolchain.DefaultKernelDir,
		manifestDir: DefaultManifestDir,
		generate:    true,
		fastpath:    true,
		checkout:    GitCheckout,
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.executor == nil {
		b.executor = &DirectExecutor{
			Root:   b.root,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		}
	}

	return b, nil
}

// BuildDir returns the build directory joined with the root.
func (b *Builder) BuildDir() string {
	return filepath.Join(b.root, filepath.FromSlash(b.buildDir))
}

// Plan resolves the axes without executing anything.  The platform manifest is
// read, when present, for the kernel stack size.
func (b *Builder) Plan(ctx context.Context, axes toolchain.Axes) (*toolchain.Resolution, error) {
	if b.rustOnly {
		axes.Bin = true
	}

	ropts := []toolchain.ResolveOption{
		toolchain.WithBuildDir(b.buildDir),
		toolchain.WithKernelDir(b.kernelDir),
		toolchain.WithFastpath(b.fastpath),
	}

	if err := toolchain.Validate(axes); err != nil {
		return nil, err
	}

	if !axes.Baseline {
		m, err := manifest.Load(ctx, b.manifestRoot(), axes.Platform.String())
		switch {
		case err == nil:
			if m.StackBits != nil {
				ropts = append(ropts, toolchain.WithStackBits(*m.StackBits))
			}
		case manifest.IsKind(err, manifest.KindNotFound):
			log.G(ctx).Debugf("no manifest for %s, using the default stack size", axes.Platform)
		default:
			return nil, err
		}
	}

	res, err := toolchain.Resolve(axes, ropts...)
	if err != nil {
		return nil, err
	}

	if b.rustOnly {
		res.Meta = nil
	}

	return res, nil
}

// Build runs every step of the build of axes.  The first failure aborts the
// build; configuration errors are reported before anything is touched.
func (b *Builder) Build(ctx context.Context, axes toolchain.Axes) (*Result, error) {
	res, err := b.Plan(ctx, axes)
	if err != nil {
		return nil, err
	}

	log.G(ctx).WithField("platform", axes.Platform).Debugf("recreating %s", b.BuildDir())

	if err := os.RemoveAll(b.BuildDir()); err != nil {
		return nil, fmt.Errorf("could not remove build directory: %w", err)
	}
	if err := os.MkdirAll(b.BuildDir(), 0o755); err != nil {
		return nil, fmt.Errorf("could not create build directory: %w", err)
	}

	result := &Result{Resolution: res}

	if res.Native.Kind == toolchain.KindCheckout {
		if err := b.runCheckout(ctx, res.Native); err != nil {
			return nil, err
		}
	} else if err := b.run(ctx, res.Native); err != nil {
		return nil, err
	}

	if b.generate && !axes.Baseline {
		result.Generated, err = b.Generate(ctx, axes.Platform.String(), res.Macros)
		if err != nil {
			return nil, err
		}
	}

	if res.Meta != nil {
		if err := b.run(ctx, res.Meta); err != nil {
			return nil, err
		}
	}

	result.Artifacts, err = b.artifacts()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Generate loads the manifest of platform and writes the generated sources,
// applying overrides to the configuration definitions.
func (b *Builder) Generate(ctx context.Context, platform string, overrides []string) ([]string, error) {
	m, err := manifest.Load(ctx, b.manifestRoot(), platform)
	if err != nil {
		return nil, err
	}

	gen := &generator.Generator{
		Root:       b.root,
		WithConfig: b.withConfig,
		Overrides:  overrides,
	}

	return gen.Generate(log.WithLogger(ctx, log.G(ctx).WithField("step", "generate")), m)
}

func (b *Builder) manifestRoot() string {
	return filepath.Join(b.root, filepath.FromSlash(b.manifestDir))
}

// ManifestPath returns the manifest file of platform.
func (b *Builder) ManifestPath(platform string) string {
	return manifest.PathFor(b.manifestRoot(), platform)
}

// Clean removes the build directory.
func (b *Builder) Clean(ctx context.Context) error {
	log.G(ctx).Infof("removing %s", b.BuildDir())

	if err := os.RemoveAll(b.BuildDir()); err != nil {
		return fmt.Errorf("could not remove build directory: %w", err)
	}

	return nil
}

func (b *Builder) run(ctx context.Context, cmd *toolchain.Command) error {
	logger := log.G(ctx).WithField("step", cmd.Kind)
	logger.Debug(cmd.String())
	logger.Infof("running %s step", cmd.Kind)

	if err := b.executor.Execute(log.WithLogger(ctx, logger), cmd); err != nil {
		return &ToolchainError{
			Kind:     cmd.Kind,
			Command:  cmd.String(),
			ExitCode: exec.ExitCode(err),
			Err:      err,
		}
	}

	return nil
}

func (b *Builder) runCheckout(ctx context.Context, cmd *toolchain.Command) error {
	logger := log.G(ctx).WithField("step", cmd.Kind)
	logger.Debug(cmd.String())
	logger.Infof("checking out %s", toolchain.BaselineBranch)

	dir := filepath.Join(b.root, filepath.FromSlash(cmd.Dir))
	if err := b.checkout(ctx, dir, toolchain.BaselineBranch); err != nil {
		return &ToolchainError{
			Kind:     cmd.Kind,
			Command:  cmd.String(),
			ExitCode: -1,
			Err:      err,
		}
	}

	return nil
}

func (b *Builder) artifacts() ([]Artifact, error) {
	entries, err := os.ReadDir(b.BuildDir())
	if err != nil {
		return nil, fmt.Errorf("could not list build directory: %w", err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, Artifact{Name: entry.Name(), Size: info.Size()})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})

	return artifacts, nil
}
