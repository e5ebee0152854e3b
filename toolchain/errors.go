// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package toolchain

import (
	"errors"
	"fmt"

	"rel4kit.sh/internal/errs"
	"rel4kit.sh/platform"
)

var (
	// ErrUnsupportedPlatform is wrapped when the platform axis names no known
	// platform.
	ErrUnsupportedPlatform = platform.ErrUnsupported

	// ErrInvalidCPUs is wrapped when the CPU count is below one.
	ErrInvalidCPUs = errors.New("cpu count must be at least 1")
)

// ConfigurationError reports axes which cannot be resolved.  It matches both
// its cause and errs.ErrConfiguration with errors.Is.
type ConfigurationError struct {
	// Axis names the offending axis, e.g. "platform".
	Axis string

	// Value is the rejected value.
	Value string

	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Axis, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{e.Err, errs.ErrConfiguration}
}
