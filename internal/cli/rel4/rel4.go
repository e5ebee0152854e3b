// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package rel4

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/config"
	"rel4kit.sh/internal/cli"
	kitversion "rel4kit.sh/internal/version"
	"rel4kit.sh/iostreams"
	"rel4kit.sh/log"

	"rel4kit.sh/internal/cli/rel4/build"
	"rel4kit.sh/internal/cli/rel4/clean"
	"rel4kit.sh/internal/cli/rel4/gen"
	"rel4kit.sh/internal/cli/rel4/run"
	"rel4kit.sh/internal/cli/rel4/version"
)

type Rel4Options struct{}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&Rel4Options{}, cobra.Command{
		Short: "Build and simulate the reL4 microkernel",
		Use:   "rel4 [FLAGS] SUBCOMMAND",
		Long: heredoc.Docf(`
			Build and simulate the reL4 microkernel.

			Version: %s`, kitversion.Version()),
	})
	if err != nil {
		panic(err)
	}

	cmd.AddGroup(&cobra.Group{ID: "build", Title: "BUILD COMMANDS"})
	cmd.AddCommand(build.NewCmd())
	cmd.AddCommand(clean.NewCmd())
	cmd.AddCommand(gen.NewCmd())
	cmd.AddCommand(run.NewCmd())

	cmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISCELLANEOUS COMMANDS"})
	cmd.AddCommand(version.NewCmd())

	return cmd
}

// PersistentPre rebuilds the logger once the global flags have been applied
// to the configuration.
func (opts *Rel4Options) PersistentPre(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ctx = log.WithLogger(ctx, cli.NewLogger(iostreams.G(ctx).ErrOut, config.G(ctx)))
	cmd.SetContext(ctx)

	log.G(ctx).Debugf("rel4 %s", kitversion.Version())

	return nil
}

func (opts *Rel4Options) Run(_ context.Context, _ []string) error {
	return pflag.ErrHelp
}

// Execute runs cmd with args under ctx after instantiating copts.
func Execute(ctx context.Context, cmd *cobra.Command, args []string, copts ...cli.CliOption) int {
	options := &cli.CliOptions{}

	for _, o := range copts {
		if err := o(options); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	cmd.SetArgs(args)

	return cmdfactory.Main(options.Context(ctx), cmd)
}

func Main(args []string) int {
	cmd := NewCmd()
	ctx := signals.SetupSignalContext()

	return Execute(ctx, cmd, args,
		cli.WithDefaultConfigManager(cmd),
		cli.WithDefaultIOStreams(),
		cli.WithDefaultLogger(),
	)
}
