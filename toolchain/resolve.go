// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package toolchain

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	// BaselineBranch is the kernel repository branch checked out by baseline
	// builds.
	BaselineBranch = "baseline"

	// DefaultBuildDir is where the meta build runs, relative to the kernel crate.
	DefaultBuildDir = "./build"

	// DefaultKernelDir is the kernel repository, relative to the kernel crate.
	DefaultKernelDir = "../kernel"

	// initBuildScript is the CMake wrapper, relative to the kernel crate.
	initBuildScript = "../init-build.sh"
)

// Resolution is the outcome of resolving a set of axes.
type Resolution struct {
	Axes Axes

	// Native is either the cargo build or, for baseline builds, the checkout.
	Native *Command

	// Meta is the init-build.sh and ninja invocation.
	Meta *Command

	// CPUs is the requested core count, also recorded for baseline builds.
	CPUs int

	// Multicore is true when the run should be routed to an SMP simulation.
	Multicore bool

	// Macros are the KERNEL_MACRO=value pairs exported to the native build.
	Macros []string
}

type resolveOptions struct {
	buildDir  string
	kernelDir string
	fastpath  bool
	stackBits *uint64
}

type ResolveOption func(*resolveOptions)

// WithBuildDir overrides DefaultBuildDir.
func WithBuildDir(dir string) ResolveOption {
	return func(ro *resolveOptions) {
		ro.buildDir = dir
	}
}

// WithKernelDir overrides DefaultKernelDir.
func WithKernelDir(dir string) ResolveOption {
	return func(ro *resolveOptions) {
		ro.kernelDir = dir
	}
}

// WithFastpath toggles the FASTPATH kernel macro, enabled by default.
func WithFastpath(enabled bool) ResolveOption {
	return func(ro *resolveOptions) {
		ro.fastpath = enabled
	}
}

// WithStackBits exports KERNEL_STACK_BITS ahead of the axis macros.  Baseline
// builds ignore it.
func WithStackBits(bits uint64) ResolveOption {
	return func(ro *resolveOptions) {
		ro.stackBits = &bits
	}
}

// Validate checks the axes without building any command.
func Validate(a Axes) error {
	if !a.Platform.Valid() {
		return &ConfigurationError{
			Axis:  "platform",
			Value: a.Platform.String(),
			Err:   ErrUnsupportedPlatform,
		}
	}

	if a.CPUs < 1 {
		return &ConfigurationError{
			Axis:  "cpus",
			Value: strconv.Itoa(a.CPUs),
			Err:   ErrInvalidCPUs,
		}
	}

	return nil
}

// Resolve translates the axes into the native and meta commands.  It performs
// no I/O.  Invalid axes return a *ConfigurationError and no commands.
func Resolve(a Axes, opts ...ResolveOption) (*Resolution, error) {
	ro := resolveOptions{
		buildDir:  DefaultBuildDir,
		kernelDir: DefaultKernelDir,
		fastpath:  true,
	}
	for _, opt := range opts {
		opt(&ro)
	}

	if err := Validate(a); err != nil {
		return nil, err
	}

	res := &Resolution{
		Axes:      a,
		CPUs:      a.CPUs,
		Multicore: a.Multicore(),
	}

	if a.Baseline {
		res.Native = &Command{
			Kind: KindCheckout,
			Dir:  ro.kernelDir,
			Steps: []Step{{
				Bin:  "git",
				Args: []string{"checkout", BaselineBranch},
			}},
		}
		res.Meta = metaCommand(newFlagSet(DefaultAxes(a.Platform)), ro.buildDir)

		return res, nil
	}

	set := newFlagSet(a)

	if ro.stackBits != nil {
		res.Macros = append(res.Macros, fmt.Sprintf("KERNEL_STACK_BITS=%d", *ro.stackBits))
	}
	res.Macros = append(res.Macros, set.Macros()...)
	if ro.fastpath {
		res.Macros = append(res.Macros, "FASTPATH=true")
	}

	res.Native = &Command{
		Kind: KindNative,
		Steps: []Step{{
			Bin:  "cargo",
			Args: append([]string{"build", "--release"}, set.Native()...),
			Env: []string{
				"PLATFORM=" + a.Platform.String(),
				"MARCOS=" + strings.Join(res.Macros, " "),
			},
		}},
	}
	res.Meta = metaCommand(set, ro.buildDir)

	return res, nil
}

func metaCommand(set *flagSet, buildDir string) *Command {
	return &Command{
		Kind: KindMeta,
		Dir:  buildDir,
		Steps: []Step{
			{
				Bin:  initBuildPath(buildDir),
				Args: set.Meta(),
			},
			{
				Bin: "ninja",
			},
		},
	}
}

// initBuildPath locates the CMake wrapper as seen from the build directory,
// which must be relative to the kernel crate.
func initBuildPath(buildDir string) string {
	depth := 0
	for _, elem := range strings.Split(path.Clean(buildDir), "/") {
		switch elem {
		case ".", "":
		case "..":
			depth--
		default:
			depth++
		}
	}

	if depth < 0 {
		depth = 0
	}

	up := make([]string, 0, depth+1)
	for i := 0; i < depth; i++ {
		up = append(up, "..")
	}

	return path.Join(append(up, initBuildScript)...)
}
