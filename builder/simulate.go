// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package builder

import (
	"context"

	"rel4kit.sh/exec"
	"rel4kit.sh/toolchain"
)

type simulateArgs struct {
	CPUNum int `flag:"--cpu-num"`
}

// SimulateCommand returns the invocation of the simulator produced by the
// meta-build.  Multi-core resolutions boot every core.
func (b *Builder) SimulateCommand(res *toolchain.Resolution, extra ...string) (*toolchain.Command, error) {
	var sa simulateArgs
	if res.Multicore {
		sa.CPUNum = res.CPUs
	}

	args, err := exec.ParseInterfaceArgs(sa)
	if err != nil {
		return nil, err
	}
	args = append(args, extra...)

	return &toolchain.Command{
		Kind: toolchain.KindSimulate,
		Dir:  b.buildDir,
		Steps: []toolchain.Step{{
			Bin:  "./simulate",
			Args: args,
		}},
	}, nil
}

// Simulate runs the simulator of a finished build.
func (b *Builder) Simulate(ctx context.Context, res *toolchain.Resolution, extra ...string) error {
	cmd, err := b.SimulateCommand(res, extra...)
	if err != nil {
		return err
	}

	return b.run(ctx, cmd)
}
