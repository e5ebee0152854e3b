// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"context"
)

// G is an alias for FromContext.
var G = FromContext

// contextKey is used to retrieve the configuration manager from the context.
type contextKey struct{}

// WithConfigManager returns a new context with the provided configuration
// manager.
func WithConfigManager(ctx context.Context, cfgm *ConfigManager) context.Context {
	return context.WithValue(ctx, contextKey{}, cfgm)
}

// FromContext returns the configuration stored in the context, or a fresh
// configuration populated with default values.
func FromContext(ctx context.Context) *Rel4Kit {
	if ctx != nil {
		if cfgm, ok := ctx.Value(contextKey{}).(*ConfigManager); ok && cfgm != nil {
			return cfgm.Config
		}
	}

	c, _ := NewDefaultConfig()
	return c
}
