// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
)

// NewDefaultConfig returns the configuration with every `default` tag applied
// and nothing read from the environment.
func NewDefaultConfig() (*Rel4Kit, error) {
	c := &Rel4Kit{}

	if err := env.ParseWithOptions(c, env.Options{
		Environment:         map[string]string{},
		DefaultValueTagName: "default",
	}); err != nil {
		return nil, fmt.Errorf("could not set defaults for config: %w", err)
	}

	return c, nil
}

// Default returns the default value of the configuration key, e.g.
// "paths.build", or the empty string if the key has no default.
func Default(key string) string {
	def, ok := findDefault(key, "", reflect.TypeOf(Rel4Kit{}))
	if !ok {
		return ""
	}

	return def
}

func findDefault(needle, offset string, t reflect.Type) (string, bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := yamlName(field)
		if name == "" {
			continue
		}

		check := name
		if len(offset) > 0 {
			check = offset + "." + name
		}

		if field.Type.Kind() == reflect.Struct {
			if def, ok := findDefault(needle, check, field.Type); ok {
				return def, true
			}
			continue
		}

		if check == needle {
			return field.Tag.Get("default"), true
		}
	}

	return "", false
}

func AllowedValues(key string) []string {
	for _, details := range ConfigDetails() {
		if details.Key == key {
			return details.AllowedValues
		}
	}

	return []string{}
}

// yamlName returns the key of the field as it appears in the configuration
// file.
func yamlName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}

	return name
}
