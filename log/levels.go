// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"strings"

	"github.com/sirupsen/logrus"
)

var levels = map[string]logrus.Level{
	"panic":   logrus.PanicLevel,
	"fatal":   logrus.FatalLevel,
	"error":   logrus.ErrorLevel,
	"warning": logrus.WarnLevel,
	"warn":    logrus.WarnLevel,
	"info":    logrus.InfoLevel,
	"debug":   logrus.DebugLevel,
	"trace":   logrus.TraceLevel,
}

// LevelFromString returns the logrus level for the given name.  Unknown names
// resolve to info and the second return value is false.
func LevelFromString(name string) (logrus.Level, bool) {
	level, ok := levels[strings.ToLower(name)]
	if !ok {
		return logrus.InfoLevel, false
	}

	return level, true
}
