// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package version

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/internal/version"
	"rel4kit.sh/iostreams"
)

type VersionOptions struct{}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&VersionOptions{}, cobra.Command{
		Short:   "Show rel4 version information",
		Use:     "version",
		Aliases: []string{"v"},
		Args:    cobra.NoArgs,
		Long:    "Show rel4 version information.",
		Example: heredoc.Doc(`
			# Show rel4 version information
			$ rel4 version
		`),
		Annotations: map[string]string{
			cmdfactory.AnnotationHelpGroup: "misc",
		},
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *VersionOptions) Run(ctx context.Context, _ []string) error {
	fmt.Fprintf(iostreams.G(ctx).Out, "rel4 %s", version.String())
	return nil
}
