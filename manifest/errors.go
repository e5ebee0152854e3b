// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package manifest

import (
	"errors"
	"fmt"

	"rel4kit.sh/internal/errs"
)

// ErrorKind classifies a manifest Error.
type ErrorKind int

const (
	// KindNotFound means the manifest file does not exist.
	KindNotFound ErrorKind = iota

	// KindParse means the file could not be read or is not valid YAML of the
	// expected shape.
	KindParse

	// KindMissingField means a consumed field is absent.
	KindMissingField

	// KindOverflow means a derived address does not fit in 64 bits.
	KindOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindParse:
		return "parse"
	case KindMissingField:
		return "missing field"
	case KindOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error reports a manifest which cannot be used.  It matches errs.ErrManifest
// with errors.Is.
type Error struct {
	Kind ErrorKind

	// Path is the manifest file.
	Path string

	// Field is the dotted path of the offending field, e.g.
	// "memory.avail_mem_zone[1].end".  Empty for KindNotFound and KindParse.
	Field string

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("manifest %s not found", e.Path)
	case KindMissingField:
		return fmt.Sprintf("manifest %s: missing field %s", e.Path, e.Field)
	case KindOverflow:
		return fmt.Sprintf("manifest %s: %s overflows 64 bits", e.Path, e.Field)
	default:
		return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{errs.ErrManifest}
	}

	return []error{e.Err, errs.ErrManifest}
}

// IsKind returns true if err is a manifest Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var merr *Error
	return errors.As(err, &merr) && merr.Kind == kind
}
