// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ExecOptions describe the surroundings of a toolchain process.
type ExecOptions struct {
	dir    string
	stdout io.Writer
	stderr io.Writer
	env    []string
	log    *logrus.Entry
}

type ExecOption func(eo *ExecOptions) error

// NewExecOptions applies eopts in order.
func NewExecOptions(eopts ...ExecOption) (*ExecOptions, error) {
	eo := &ExecOptions{}

	for _, o := range eopts {
		if err := o(eo); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return eo, nil
}

// WithDir sets the working directory, e.g. the meta-build directory.
func WithDir(dir string) ExecOption {
	return func(eo *ExecOptions) error {
		eo.dir = dir
		return nil
	}
}

// WithEnv adds KEY=VALUE pairs, such as PLATFORM and MARCOS, on top of the
// host environment.  The value may itself contain '=' and spaces.
func WithEnv(env ...string) ExecOption {
	return func(eo *ExecOptions) error {
		for _, kv := range env {
			key, _, ok := strings.Cut(kv, "=")
			if !ok || len(key) == 0 {
				return fmt.Errorf("malformed environment entry %q", kv)
			}
		}

		eo.env = append(eo.env, env...)

		return nil
	}
}

// WithOutput connects the process output.  A nil stderr shares stdout.
func WithOutput(stdout, stderr io.Writer) ExecOption {
	return func(eo *ExecOptions) error {
		eo.stdout = stdout
		eo.stderr = stderr
		return nil
	}
}

// WithLogger prints the command line at debug level before starting.
func WithLogger(log *logrus.Entry) ExecOption {
	return func(eo *ExecOptions) error {
		eo.log = log
		return nil
	}
}
