// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

var (
	// G is an alias for FromContext.
	G = FromContext

	// L is the fallback logger used when no logger has been attached to the
	// context.
	L = logrus.NewEntry(logrus.StandardLogger())
)

type contextKey struct{}

// WithLogger returns a new context carrying the provided logger entry.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger entry stored in the context, or L.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return L
	}

	l, ok := ctx.Value(contextKey{}).(*logrus.Entry)
	if !ok || l == nil {
		return L
	}

	return l
}
