// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package builder

import (
	"fmt"

	"rel4kit.sh/internal/errs"
	"rel4kit.sh/toolchain"
)

// ToolchainError reports a step which could not be launched or exited with a
// non-zero status.  It matches errs.ErrToolchain with errors.Is.
type ToolchainError struct {
	Kind    toolchain.Kind
	Command string

	// ExitCode is the status of the failed process, or -1 if it did not run to
	// completion.
	ExitCode int

	Err error
}

func (e *ToolchainError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s step failed with exit status %d: %s", e.Kind, e.ExitCode, e.Command)
	}

	return fmt.Sprintf("%s step failed: %s: %v", e.Kind, e.Command, e.Err)
}

func (e *ToolchainError) Unwrap() []error {
	return []error{e.Err, errs.ErrToolchain}
}
