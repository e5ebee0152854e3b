// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package config holds the rel4kit configuration along with the facilities to
// seed it from defaults, a YAML file and the environment.
package config

type Rel4Kit struct {
	NoPrompt bool `yaml:"no_prompt" env:"REL4KIT_NO_PROMPT" long:"no-prompt" usage:"Do not prompt for user interaction" default:"false"`

	Paths struct {
		Root      string `yaml:"root,omitempty" env:"REL4KIT_PATHS_ROOT" long:"root-dir" usage:"Path to the reL4 kernel crate" default:"."`
		Kernel    string `yaml:"kernel,omitempty" env:"REL4KIT_PATHS_KERNEL" long:"kernel-dir" usage:"Path to the seL4 kernel repository, relative to the root" default:"../kernel"`
		Build     string `yaml:"build,omitempty" env:"REL4KIT_PATHS_BUILD" long:"build-dir" usage:"Path to the meta-build directory, relative to the root" default:"./build"`
		Manifests string `yaml:"manifests,omitempty" env:"REL4KIT_PATHS_MANIFESTS" long:"manifests-dir" usage:"Path to the platform manifests, relative to the root" default:"platforms"`
	} `yaml:"paths,omitempty"`

	Log struct {
		Level      string `yaml:"level" env:"REL4KIT_LOG_LEVEL" long:"log-level" usage:"Log level verbosity" default:"info"`
		Timestamps bool   `yaml:"timestamps" env:"REL4KIT_LOG_TIMESTAMPS" long:"log-timestamps" usage:"Enable log timestamps"`
		Type       string `yaml:"type" env:"REL4KIT_LOG_TYPE" long:"log-type" usage:"Log type" default:"fancy"`
	} `yaml:"log"`

	Exec struct {
		Shell bool `yaml:"shell" env:"REL4KIT_EXEC_SHELL" long:"exec-shell" usage:"Run toolchain steps through sh -c" default:"false"`
	} `yaml:"exec"`
}

type ConfigDetail struct {
	Key           string
	Description   string
	AllowedValues []string
}

// Descriptions of each configuration parameter as well as valid values
var configDetails = []ConfigDetail{
	{
		Key:         "no_prompt",
		Description: "toggle interactive prompting in the terminal",
	},
	{
		Key:         "log.level",
		Description: "the verbosity of log messages",
		AllowedValues: []string{
			"panic", "fatal", "error", "warn", "info", "debug", "trace",
		},
	},
	{
		Key:         "log.type",
		Description: "the format of log messages",
		AllowedValues: []string{
			"quiet", "basic", "fancy", "json",
		},
	},
	{
		Key:         "log.timestamps",
		Description: "prefix log messages with the time",
	},
	{
		Key:         "paths.kernel",
		Description: "the seL4 kernel repository holding the baseline branch",
	},
	{
		Key:         "paths.build",
		Description: "the directory the meta-build runs in",
	},
	{
		Key:         "paths.manifests",
		Description: "the directory holding one <platform>.yml manifest per platform",
	},
	{
		Key:         "exec.shell",
		Description: "run toolchain steps through the system shell",
	},
}

func ConfigDetails() []ConfigDetail {
	return configDetails
}
