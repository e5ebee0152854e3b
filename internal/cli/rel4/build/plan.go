// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/xlab/treeprint"

	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/iostreams"
	"rel4kit.sh/toolchain"
)

// PlanTree renders a resolution as a tree of the commands it would run, each
// with its environment and the argument vector the shell would see.
func PlanTree(res *toolchain.Resolution, manifestPath string, generate bool) (treeprint.Tree, error) {
	title := fmt.Sprintf("%s (cpus: %d)", res.Axes.Platform, res.CPUs)
	if res.Multicore {
		title = fmt.Sprintf("%s (cpus: %d, smp)", res.Axes.Platform, res.CPUs)
	}

	tree := treeprint.NewWithRoot(title)

	if err := addCommand(tree, res.Native); err != nil {
		return nil, err
	}

	if generate && !res.Axes.Baseline {
		gen := tree.AddBranch("generate")
		gen.AddNode(manifestPath)
	}

	if res.Meta != nil {
		if err := addCommand(tree, res.Meta); err != nil {
			return nil, err
		}
	}

	return tree, nil
}

func addCommand(tree treeprint.Tree, cmd *toolchain.Command) error {
	branch := tree.AddBranch(string(cmd.Kind))
	branch.AddNode(cmd.String())

	if env := cmd.Env(); len(env) > 0 {
		branch.AddMetaNode("env", strings.Join(env, " "))
	}

	tokens, err := shlex.Split(cmd.String())
	if err != nil {
		return fmt.Errorf("could not tokenise %s command: %w", cmd.Kind, err)
	}

	argv := branch.AddBranch(fmt.Sprintf("tokens (%d)", len(tokens)))
	for _, token := range tokens {
		argv.AddNode(token)
	}

	return nil
}

// DryRun prints the plan of the build described by opts without executing
// anything.
func DryRun(ctx context.Context, opts *BuildOptions, args ...string) error {
	opts.Workdir = cmdfactory.DirArg(args, opts.Workdir)

	b, err := opts.NewBuilder(ctx)
	if err != nil {
		return err
	}

	res, err := b.Plan(ctx, opts.Axes())
	if err != nil {
		return err
	}

	tree, err := PlanTree(res, b.ManifestPath(res.Axes.Platform.String()), !opts.NoGenerate)
	if err != nil {
		return err
	}

	fmt.Fprint(iostreams.G(ctx).Out, tree.String())

	return nil
}
