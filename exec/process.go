// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type Process struct {
	executable *Executable
	opts       *ExecOptions
	cmd        *exec.Cmd
}

// NewProcess prepares a process to be executed from a given binary name and
// optional execution options
func NewProcess(bin string, args []string, eopts ...ExecOption) (*Process, error) {
	executable, err := NewExecutable(bin, nil, args...)
	if err != nil {
		return nil, err
	}

	return NewProcessFromExecutable(executable, eopts...)
}

// NewProcessFromExecutable prepares a process to be executed from a given
// *Executable object and optional execution options
func NewProcessFromExecutable(executable *Executable, eopts ...ExecOption) (*Process, error) {
	if executable == nil {
		return nil, fmt.Errorf("cannot prepare process without executable")
	}

	opts, err := NewExecOptions(eopts...)
	if err != nil {
		return nil, err
	}

	return &Process{
		executable: executable,
		opts:       opts,
	}, nil
}

// Cmdline returns the full command line to be executed
func (e *Process) Cmdline() string {
	return strings.Join(
		append(
			[]string{e.executable.bin},
			e.executable.Args()...,
		),
		" ",
	)
}

// Start the process.  Cancelling ctx kills the process.
func (e *Process) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	e.cmd = exec.CommandContext(ctx, e.executable.bin, e.executable.Args()...)
	e.cmd.Dir = e.opts.dir
	e.cmd.Stdout = e.opts.stdout
	e.cmd.Stderr = e.opts.stderr
	if e.cmd.Stderr == nil {
		e.cmd.Stderr = e.cmd.Stdout
	}

	// Later entries win, so the step environment overrides the host's
	e.cmd.Env = append(os.Environ(), e.opts.env...)

	if e.opts.log != nil {
		e.opts.log.Debug(e.Cmdline())
	}

	return e.cmd.Start()
}

// Wait for the process to complete
func (e *Process) Wait() error {
	if e.cmd == nil {
		return fmt.Errorf("process has not yet started cannot wait")
	}

	return e.cmd.Wait()
}

// StartAndWait starts the process and waits for it to exit
func (e *Process) StartAndWait(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		return err
	}

	return e.Wait()
}

// ExitCode returns the exit status carried by err, or -1 when err does not
// come from an exited process.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}
