// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package clean

import (
	"context"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"rel4kit.sh/builder"
	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/config"
)

type CleanOptions struct{}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&CleanOptions{}, cobra.Command{
		Short: "Remove the build directory",
		Use:   "clean [FLAGS] [DIR]",
		Args:  cmdfactory.MaxDirArgs(1),
		Long:  "Remove the meta-build directory of the kernel crate found at DIR, or at the configured root.",
		Example: heredoc.Doc(`
			# Remove ./build
			$ rel4 clean
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

func (opts *CleanOptions) Run(ctx context.Context, args []string) error {
	cfg := config.G(ctx)

	root := cmdfactory.DirArg(args, cfg.Paths.Root)

	b, err := builder.NewBuilder(
		builder.WithRoot(root),
		builder.WithBuildDir(cfg.Paths.Build),
	)
	if err != nil {
		return err
	}

	return b.Clean(ctx)
}
