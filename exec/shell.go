// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package exec

import (
	"fmt"

	"github.com/cli/safeexec"
)

// DefaultShell is the interpreter used by NewShellProcess.
const DefaultShell = "sh"

// NewShellProcess prepares cmdline to be interpreted by the system shell, i.e.
// `sh -c <cmdline>`.  The shell is located on the PATH without considering the
// current directory.
func NewShellProcess(cmdline string, eopts ...ExecOption) (*Process, error) {
	if len(cmdline) == 0 {
		return nil, fmt.Errorf("cannot run empty command line")
	}

	sh, err := safeexec.LookPath(DefaultShell)
	if err != nil {
		return nil, fmt.Errorf("could not locate %s: %w", DefaultShell, err)
	}

	return NewProcessFromExecutable(&Executable{
		bin:  sh,
		args: []string{"-c", cmdline},
	}, eopts...)
}
