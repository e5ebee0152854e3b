// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import "strings"

type LoggerType uint

const (
	QUIET LoggerType = iota
	BASIC
	FANCY
	JSON
)

var loggerTypeNames = map[LoggerType]string{
	QUIET: "quiet",
	BASIC: "basic",
	FANCY: "fancy",
	JSON:  "json",
}

// LoggerTypeFromString parses a logger type, falling back to BASIC.
func LoggerTypeFromString(name string) LoggerType {
	name = strings.ToLower(name)
	for t, n := range loggerTypeNames {
		if n == name {
			return t
		}
	}

	return BASIC
}

func (t LoggerType) String() string {
	if name, ok := loggerTypeNames[t]; ok {
		return name
	}

	return loggerTypeNames[BASIC]
}
