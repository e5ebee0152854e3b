// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file expect in compliance with the License.
package cli

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rel4kit.sh/cmdfactory"
	"rel4kit.sh/config"
	"rel4kit.sh/iostreams"
	"rel4kit.sh/log"
)

type CliOptions struct {
	IOStreams     *iostreams.IOStreams
	Logger        *logrus.Entry
	ConfigManager *config.ConfigManager
}

type CliOption func(*CliOptions) error

// WithConfigManager sets a previously instantiate ConfigManager to be used as
// part of the CLI options.
func WithConfigManager(cfgm *config.ConfigManager) CliOption {
	return func(copts *CliOptions) error {
		copts.ConfigManager = cfgm
		return nil
	}
}

// WithDefaultConfigManager instantiates a configuration manager from the user
// configuration file and the environment, and exposes every configuration
// key as a global flag of cmd.
func WithDefaultConfigManager(cmd *cobra.Command) CliOption {
	return func(copts *CliOptions) error {
		if copts.ConfigManager != nil {
			return nil
		}

		cfgm, err := config.NewConfigManager(
			config.WithDefaultConfigFile(),
			config.WithEnv(),
		)
		if cfgm == nil {
			return err
		}

		// A broken configuration file still leaves the defaults in place.
		if err != nil {
			log.L.Warn(err)
		}

		if err := cmdfactory.AttributeFlags(cmd, cfgm.Config); err != nil {
			return err
		}

		copts.ConfigManager = cfgm

		return nil
	}
}

// WithIOStreams sets a previously instantiated iostreams.IOStreams structure to
// be used within the command.
func WithIOStreams(io *iostreams.IOStreams) CliOption {
	return func(copts *CliOptions) error {
		copts.IOStreams = io
		return nil
	}
}

// WithDefaultIOStreams instantiates ta new IO streams using environmental
// variables and host-provided configuration.
func WithDefaultIOStreams() CliOption {
	return func(copts *CliOptions) error {
		if copts.IOStreams != nil {
			return nil
		}

		copts.IOStreams = iostreams.System()

		return nil
	}
}

// WithLogger sets a previously instantiated logger.
func WithLogger(logger *logrus.Entry) CliOption {
	return func(copts *CliOptions) error {
		copts.Logger = logger
		return nil
	}
}

// WithDefaultLogger sets up the built in logger based on provided conifg found
// from the ConfigManager.
func WithDefaultLogger() CliOption {
	return func(copts *CliOptions) error {
		if copts.Logger != nil {
			return nil
		}

		if copts.ConfigManager == nil {
			copts.Logger = log.L
			return nil
		}

		out := iostreams.IO.ErrOut
		if copts.IOStreams != nil {
			out = copts.IOStreams.ErrOut
		}

		copts.Logger = NewLogger(out, copts.ConfigManager.Config)

		return nil
	}
}

// NewLogger returns a logger honouring the log section of cfg.
func NewLogger(out io.Writer, cfg *config.Rel4Kit) *logrus.Entry {
	level, ok := log.LevelFromString(cfg.Log.Level)
	if !ok {
		level = logrus.InfoLevel
	}

	return log.New(out, log.LoggerTypeFromString(cfg.Log.Type), level, cfg.Log.Timestamps)
}

// Context stores every instantiated option in ctx.
func (copts *CliOptions) Context(ctx context.Context) context.Context {
	if copts.ConfigManager != nil {
		ctx = config.WithConfigManager(ctx, copts.ConfigManager)
	}

	if copts.Logger != nil {
		ctx = log.WithLogger(ctx, copts.Logger)
	}

	if copts.IOStreams != nil {
		ctx = iostreams.WithIOStreams(ctx, copts.IOStreams)
	}

	return ctx
}
