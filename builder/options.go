// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package builder

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithRoot sets the kernel crate directory every other path is relative to.
func WithRoot(root string) BuilderOption {
	return func(b *Builder) error {
		b.root = root
		return nil
	}
}

// WithBuildDir sets the meta-build directory, "./build" by default.
func WithBuildDir(dir string) BuilderOption {
	return func(b *Builder) error {
		b.buildDir = dir
		return nil
	}
}

// WithKernelDir sets the repository checked out by baseline builds.
func WithKernelDir(dir string) BuilderOption {
	return func(b *Builder) error {
		b.kernelDir = dir
		return nil
	}
}

// WithManifestDir sets the directory holding the platform manifests.
func WithManifestDir(dir string) BuilderOption {
	return func(b *Builder) error {
		b.manifestDir = dir
		return nil
	}
}

// WithGenerate toggles the generation of the platform sources between the
// native and meta steps.
func WithGenerate(generate bool) BuilderOption {
	return func(b *Builder) error {
		b.generate = generate
		return nil
	}
}

// WithConfigGeneration additionally writes config.h and config.rs.
func WithConfigGeneration(enabled bool) BuilderOption {
	return func(b *Builder) error {
		b.withConfig = enabled
		return nil
	}
}

// WithFastpath toggles the FASTPATH kernel macro.
func WithFastpath(enabled bool) BuilderOption {
	return func(b *Builder) error {
		b.fastpath = enabled
		return nil
	}
}

// WithRustOnly stops after the native build, which then always produces the
// kernel binary.
func WithRustOnly(rustOnly bool) BuilderOption {
	return func(b *Builder) error {
		b.rustOnly = rustOnly
		return nil
	}
}

// WithExecutor replaces the DirectExecutor.
func WithExecutor(executor Executor) BuilderOption {
	return func(b *Builder) error {
		b.executor = executor
		return nil
	}
}

// WithCheckout replaces GitCheckout.
func WithCheckout(checkout CheckoutFunc) BuilderOption {
	return func(b *Builder) error {
		b.checkout = checkout
		return nil
	}
}
