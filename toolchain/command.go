// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package toolchain

import (
	"strings"
)

// Kind identifies what a Command drives.
type Kind string

const (
	// KindNative is the cargo build of the kernel crate.
	KindNative = Kind("native")

	// KindCheckout replaces the native build with a checkout of the baseline
	// revision of the kernel repository.
	KindCheckout = Kind("checkout")

	// KindMeta is the CMake configuration and ninja build.
	KindMeta = Kind("meta")

	// KindSimulate runs the simulator produced by the meta build.
	KindSimulate = Kind("simulate")
)

// Step is one program invocation.
type Step struct {
	Bin  string
	Args []string

	// Env holds KEY=VALUE pairs added to the inherited environment.
	Env []string
}

// Argv returns the program followed by its arguments.
func (s Step) Argv() []string {
	return append([]string{s.Bin}, s.Args...)
}

func (s Step) String() string {
	return strings.Join(s.Argv(), " ")
}

// Command is a sequence of steps run one after the other from Dir.  The first
// failing step aborts the command.
type Command struct {
	Kind Kind

	// Dir is the working directory, relative to the kernel crate.  Empty means
	// the kernel crate itself.
	Dir string

	Steps []Step
}

// String renders the command as the equivalent shell command line, e.g.
// "cd ./build && ../../init-build.sh -DPLATFORM=spike && ninja".  Environment
// variables are not part of the rendering.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.Steps)+1)
	if c.Dir != "" {
		parts = append(parts, "cd "+c.Dir)
	}

	for _, step := range c.Steps {
		parts = append(parts, step.String())
	}

	return strings.Join(parts, " && ")
}

// Env returns the environment of all steps.
func (c *Command) Env() []string {
	var env []string
	for _, step := range c.Steps {
		env = append(env, step.Env...)
	}
	return env
}
