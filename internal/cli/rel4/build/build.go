// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rel4kit.sh/builder"
	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/config"
	"rel4kit.sh/internal/fancymap"
	"rel4kit.sh/iostreams"
	"rel4kit.sh/log"
	"rel4kit.sh/platform"
	"rel4kit.sh/toolchain"
)

type BuildOptions struct {
	ArmHyp     bool                                   `long:"arm-hyp" usage:"Run the kernel as a hypervisor at EL2 (aarch64 only)"`
	ArmPCNT    bool                                   `long:"arm-pcnt" usage:"Export the physical counter to user mode (aarch64 only)"`
	ArmPTMR    bool                                   `long:"arm-ptmr" usage:"Export the physical timer to user mode (aarch64 only)"`
	Baseline   bool                                   `long:"baseline" short:"b" usage:"Build the seL4 baseline instead of reL4"`
	Bin        bool                                   `long:"bin" short:"B" usage:"Link reL4 as a standalone kernel binary"`
	CPUs       int                                    `long:"cpus" short:"c" usage:"Number of cores" default:"1"`
	DryRun     bool                                   `long:"dry-run" usage:"Print the resolved build plan without running it"`
	MCS        bool                                   `long:"mcs" short:"m" usage:"Enable the mixed-criticality scheduler"`
	NoFastpath bool                                   `long:"no-fastpath" usage:"Disable the IPC fast path"`
	NoGenerate bool                                   `long:"no-generate" usage:"Do not regenerate the platform sources from the manifest"`
	Platform   *cmdfactory.EnumFlag[platform.Platform] `long:"platform" short:"p" usage:"Target platform"`
	RustOnly   bool                                   `long:"rust-only" usage:"Only run the cargo build"`
	SMC        bool                                   `long:"smc" short:"s" usage:"Allow SMC calls from user mode (aarch64 only)"`

	// Workdir is the kernel crate, either the positional argument or the
	// configured root.
	Workdir string `noattribute:"true"`
}

// NewBuildOptions returns options with every flag at its default.
func NewBuildOptions() *BuildOptions {
	return &BuildOptions{
		Platform: cmdfactory.NewEnumFlag(platform.Platforms(), platform.PlatformSpike),
	}
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(NewBuildOptions(), cobra.Command{
		Short: "Build the reL4 kernel",
		Use:   "build [FLAGS] [DIR]",
		Args:  cmdfactory.MaxDirArgs(1),
		Long: heredoc.Docf(`
			Build the reL4 kernel crate found at DIR, or at the configured root.

			The build runs %[1]scargo build%[1]s, regenerates the platform sources from
			the platform manifest and then configures and builds the kernel with
			init-build.sh and ninja in the build directory.
		`, "`"),
		Example: heredoc.Doc(`
			# Build the kernel for the spike platform
			$ rel4 build

			# Build a 4 core kernel with the MCS scheduler
			$ rel4 build --cpus 4 --mcs

			# Show what would run for the qemu-arm-virt platform
			$ rel4 build -p qemu-arm-virt --smc --dry-run
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

// Axes returns the build axes selected by the flags.
func (opts *BuildOptions) Axes() toolchain.Axes {
	a := toolchain.Axes{
		Baseline: opts.Baseline,
		CPUs:     opts.CPUs,
		MCS:      opts.MCS,
		SMC:      opts.SMC,
		Bin:      opts.Bin,
		ArmPCNT:  opts.ArmPCNT,
		ArmPTMR:  opts.ArmPTMR,
		ArmHyp:   opts.ArmHyp,
	}

	if opts.Platform != nil {
		a.Platform = opts.Platform.Get()
	}

	return a
}

// NewBuilder returns a builder rooted at the working directory and configured
// from the configuration in ctx.
func (opts *BuildOptions) NewBuilder(ctx context.Context, bopts ...builder.BuilderOption) (*builder.Builder, error) {
	cfg := config.G(ctx)
	ios := iostreams.G(ctx)

	root := opts.Workdir
	if root == "" {
		root = cfg.Paths.Root
	}

	var executor builder.Executor = &builder.DirectExecutor{Root: root, Stdout: ios.Out, Stderr: ios.ErrOut}
	if cfg.Exec.Shell {
		executor = &builder.ShellExecutor{Root: root, Stdout: ios.Out, Stderr: ios.ErrOut}
	}

	return builder.NewBuilder(append([]builder.BuilderOption{
		builder.WithRoot(root),
		builder.WithBuildDir(cfg.Paths.Build),
		builder.WithKernelDir(cfg.Paths.Kernel),
		builder.WithManifestDir(cfg.Paths.Manifests),
		builder.WithExecutor(executor),
		builder.WithGenerate(!opts.NoGenerate),
		builder.WithFastpath(!opts.NoFastpath),
		builder.WithRustOnly(opts.RustOnly),
	}, bopts...)...)
}

// Build the kernel described by opts.
func Build(ctx context.Context, opts *BuildOptions, args ...string) (*builder.Builder, *builder.Result, error) {
	if opts == nil {
		opts = NewBuildOptions()
	}

	opts.Workdir = cmdfactory.DirArg(args, opts.Workdir)

	b, err := opts.NewBuilder(ctx)
	if err != nil {
		return nil, nil, err
	}

	result, err := b.Build(ctx, opts.Axes())
	if err != nil {
		return nil, nil, fmt.Errorf("could not complete build: %w", err)
	}

	return b, result, nil
}

func (opts *BuildOptions) Run(ctx context.Context, args []string) error {
	if opts.DryRun {
		return DryRun(ctx, opts, args...)
	}

	b, result, err := Build(ctx, opts, args...)
	if err != nil {
		return err
	}

	PrintSummary(ctx, b, result)

	return nil
}

// PrintSummary reports a finished build, listing the files left in the build
// directory with their sizes.
func PrintSummary(ctx context.Context, b *builder.Builder, result *builder.Result) {
	res := result.Resolution

	cores := fmt.Sprintf("%d", res.CPUs)
	if res.Multicore {
		cores += " (smp)"
	}

	entries := []fancymap.FancyMapEntry{
		{Key: "platform", Value: res.Axes.Platform.String()},
		{Key: "cpus", Value: cores},
	}

	for _, artifact := range result.Artifacts {
		entries = append(entries, fancymap.FancyMapEntry{
			Key:   artifact.Name,
			Value: filepath.Join(b.BuildDir(), artifact.Name),
			Right: fmt.Sprintf("(%s)", humanize.Bytes(uint64(artifact.Size))),
		})
	}

	if !iostreams.G(ctx).IsStdoutTTY() {
		fields := logrus.Fields{}
		for _, entry := range entries {
			fields[entry.Key] = entry.Value
		}
		log.G(ctx).WithFields(fields).Info("build completed successfully")
		return
	}

	fancymap.PrintFancyMap(
		iostreams.G(ctx).Out,
		iostreams.G(ctx).ColorScheme(),
		"Build completed successfully!",
		true,
		entries...,
	)
}
