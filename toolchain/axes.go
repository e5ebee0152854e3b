// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package toolchain translates the build axes of a reL4 kernel variant into
// the command lines of the native (cargo) and meta (CMake/ninja) builds.
package toolchain

import (
	"rel4kit.sh/platform"
)

// Axes are the orthogonal choices which select a kernel variant.  The value is
// never modified once resolution starts.
type Axes struct {
	// Platform is the hardware target.
	Platform platform.Platform

	// Baseline checks out the reference revision of the kernel instead of
	// building it natively.  It overrides every other axis but the platform.
	Baseline bool

	// CPUs is the number of cores; more than one selects the SMP kernel.
	CPUs int

	// MCS selects the mixed-criticality scheduling and IPC model.
	MCS bool

	// SMC enables secure monitor calls.  Only honoured on aarch64.
	SMC bool

	// Bin packages the kernel as a standalone binary rather than a library.
	Bin bool

	// ArmPCNT exports the physical counter to user space.  Only honoured on
	// aarch64.
	ArmPCNT bool

	// ArmPTMR exports the physical timer to user space.  Only honoured on
	// aarch64.
	ArmPTMR bool

	// ArmHyp builds the kernel with ARM virtualisation extensions.  Only
	// honoured on aarch64.
	ArmHyp bool
}

// DefaultAxes returns the single-core, classic-scheduling library build of the
// given platform.
func DefaultAxes(p platform.Platform) Axes {
	return Axes{
		Platform: p,
		CPUs:     1,
	}
}

// Multicore returns true when the axes select the SMP kernel.
func (a Axes) Multicore() bool {
	return a.CPUs > 1
}
