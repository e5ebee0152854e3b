// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package builder

import (
	"context"
	"io"
	"path/filepath"

	"rel4kit.sh/exec"
	"rel4kit.sh/log"
	"rel4kit.sh/toolchain"
)

// Executor runs a toolchain command to completion.  A nil error means every
// step exited with status 0.
type Executor interface {
	Execute(ctx context.Context, cmd *toolchain.Command) error
}

// DirectExecutor runs each step of a command as its own process, without a
// shell, from Root joined with the directory of the command.
type DirectExecutor struct {
	Root   string
	Stdout io.Writer
	Stderr io.Writer
}

func (e *DirectExecutor) Execute(ctx context.Context, cmd *toolchain.Command) error {
	dir := filepath.Join(e.Root, filepath.FromSlash(cmd.Dir))

	processes := make([]*exec.Process, 0, len(cmd.Steps))
	for _, step := range cmd.Steps {
		process, err := exec.NewProcess(step.Bin, step.Args,
			exec.WithDir(dir),
			exec.WithEnv(step.Env...),
			exec.WithOutput(e.Stdout, e.Stderr),
			exec.WithLogger(log.G(ctx)),
		)
		if err != nil {
			return err
		}

		processes = append(processes, process)
	}

	sequence, err := exec.NewSequential(processes...)
	if err != nil {
		return err
	}

	return sequence.StartAndWait(ctx)
}

// ShellExecutor hands the rendered command line, e.g.
// "cd ./build && ../../init-build.sh ... && ninja", to sh -c from Root.
type ShellExecutor struct {
	Root   string
	Stdout io.Writer
	Stderr io.Writer
}

func (e *ShellExecutor) Execute(ctx context.Context, cmd *toolchain.Command) error {
	process, err := exec.NewShellProcess(cmd.String(),
		exec.WithDir(e.Root),
		exec.WithEnv(cmd.Env()...),
		exec.WithOutput(e.Stdout, e.Stderr),
		exec.WithLogger(log.G(ctx)),
	)
	if err != nil {
		return err
	}

	return process.StartAndWait(ctx)
}
