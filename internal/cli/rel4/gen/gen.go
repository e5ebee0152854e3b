// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package gen

import (
	"context"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"rel4kit.sh/builder"
	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/config"
	"rel4kit.sh/generator"
	"rel4kit.sh/log"
	"rel4kit.sh/platform"
)

type GenOptions struct {
	Platform   *cmdfactory.EnumFlag[platform.Platform] `long:"platform" short:"p" usage:"Platform whose manifest is used"`
	Watch      bool                                   `long:"watch" short:"w" usage:"Regenerate whenever the manifest changes"`
	WithConfig bool                                   `long:"with-config" usage:"Also generate config.h and config.rs"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&GenOptions{
		Platform: cmdfactory.NewEnumFlag(platform.Platforms(), platform.PlatformSpike),
	}, cobra.Command{
		Short: "Generate the platform sources from a platform manifest",
		Use:   "gen [FLAGS] [DIR]",
		Args:  cmdfactory.MaxDirArgs(1),
		Long: heredoc.Doc(`
			Generate the linker script and the memory region table of the kernel
			crate found at DIR, or at the configured root, from the manifest of
			the selected platform.
		`),
		Example: heredoc.Doc(`
			# Generate the spike sources
			$ rel4 gen

			# Keep the qemu-arm-virt sources and configuration up to date
			$ rel4 gen -p qemu-arm-virt --with-config --watch
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

func (opts *GenOptions) Run(ctx context.Context, args []string) error {
	cfg := config.G(ctx)

	root := cmdfactory.DirArg(args, cfg.Paths.Root)

	b, err := builder.NewBuilder(
		builder.WithRoot(root),
		builder.WithManifestDir(cfg.Paths.Manifests),
		builder.WithConfigGeneration(opts.WithConfig),
	)
	if err != nil {
		return err
	}

	name := opts.Platform.Get().String()

	generate := func(ctx context.Context) error {
		_, err := b.Generate(ctx, name, nil)
		return err
	}

	if err := generate(ctx); err != nil {
		return err
	}

	if !opts.Watch {
		return nil
	}

	path := b.ManifestPath(name)
	log.G(ctx).Infof("watching %s", path)

	return generator.Watch(ctx, path, generate)
}
