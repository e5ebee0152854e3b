// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvFeeder feeds REL4KIT_* environment variables named by the `env` tag of
// each field.
type EnvFeeder struct {
	// Environment replaces the process environment when non-nil.
	Environment map[string]string
}

// Feed the environment into the given structure, a pointer to a struct.
func (f EnvFeeder) Feed(structure interface{}) error {
	return env.ParseWithOptions(structure, env.Options{
		Environment: f.Environment,
	})
}

// Do nothing, we do not set the environment variables based on the
// given interface.
func (f EnvFeeder) Write(structure interface{}, merge bool) error {
	return nil
}
