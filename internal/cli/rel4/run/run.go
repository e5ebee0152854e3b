// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package run

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/internal/cli/rel4/build"
	"rel4kit.sh/log"
)

type RunOptions struct {
	build.BuildOptions

	SimulateArgs string `long:"simulate-args" usage:"Additional arguments passed to the simulator"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&RunOptions{BuildOptions: *build.NewBuildOptions()}, cobra.Command{
		Short: "Build the reL4 kernel and run it in the simulator",
		Use:   "run [FLAGS] [DIR]",
		Args:  cmdfactory.MaxDirArgs(1),
		Long: heredoc.Docf(`
			Build the reL4 kernel crate found at DIR, or at the configured root, and
			boot it with the %[1]s./simulate%[1]s script produced by the build.

			Multi-core builds boot every core of the build.
		`, "`"),
		Example: heredoc.Doc(`
			# Build and boot a single core spike kernel
			$ rel4 run

			# Build and boot a 4 core kernel, waiting for a debugger
			$ rel4 run --cpus 4 --simulate-args "--extra-qemu-args '-s -S'"
		`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "build",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

// SimulatorArgs splits the --simulate-args value the way a POSIX shell would.
func (opts *RunOptions) SimulatorArgs() ([]string, error) {
	if opts.SimulateArgs == "" {
		return nil, nil
	}

	args, err := shellwords.Parse(opts.SimulateArgs)
	if err != nil {
		return nil, cmdfactory.FlagErrorf("could not parse --simulate-args: %v", err)
	}

	return args, nil
}

func (opts *RunOptions) Run(ctx context.Context, args []string) error {
	extra, err := opts.SimulatorArgs()
	if err != nil {
		return err
	}

	if opts.RustOnly {
		return cmdfactory.FlagErrorf("cannot simulate a --rust-only build")
	}

	if opts.DryRun {
		return build.DryRun(ctx, &opts.BuildOptions, args...)
	}

	b, result, err := build.Build(ctx, &opts.BuildOptions, args...)
	if err != nil {
		return err
	}

	log.G(ctx).Infof("booting %s", result.Resolution.Axes.Platform)

	if err := b.Simulate(ctx, result.Resolution, extra...); err != nil {
		return fmt.Errorf("could not run simulation: %w", err)
	}

	return nil
}
