// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigManager holds the configuration along with the feeders which populate
// it.  Feeders are applied in the order they were added, so later feeders
// override earlier ones.
type ConfigManager struct {
	Config     *Rel4Kit
	ConfigFile string
	Feeders    []Feeder
}

type ConfigManagerOption func(cm *ConfigManager) error

func WithFeeder(feeder Feeder) ConfigManagerOption {
	return func(cm *ConfigManager) error {
		cm.AddFeeder(feeder)
		return nil
	}
}

// WithFile feeds the configuration from a YAML file.  With forceCreate, a
// missing file is written out with the current values.
func WithFile(file string, forceCreate bool) ConfigManagerOption {
	return func(cm *ConfigManager) error {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
		case "":
			return fmt.Errorf("unknown file extension for config file: %s", file)
		default:
			return fmt.Errorf("unsupported file extension: %s", file)
		}

		yml := YamlFeeder{File: file}

		if _, err := os.Stat(file); os.IsNotExist(err) {
			if !forceCreate {
				return nil
			}
			if err := yml.Write(cm.Config, false); err != nil {
				return fmt.Errorf("could not write initial config: %v", err)
			}
		}

		cm.ConfigFile = file

		return WithFeeder(yml)(cm)
	}
}

// WithDefaultConfigFile reads the user configuration file when it exists.
func WithDefaultConfigFile() ConfigManagerOption {
	return WithFile(DefaultConfigFile(), false)
}

// WithEnv feeds the configuration from REL4KIT_* environment variables.
func WithEnv() ConfigManagerOption {
	return WithFeeder(EnvFeeder{})
}

func NewConfigManager(opts ...ConfigManagerOption) (*ConfigManager, error) {
	c, err := NewDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("could not seed default values for config: %s", err)
	}

	cm := &ConfigManager{Config: c}

	for _, o := range opts {
		if err := o(cm); err != nil {
			return nil, fmt.Errorf("could not apply config manager option: %v", err)
		}
	}

	// Feed the config, pass the manager anyway if this fails, we still have
	// defaults
	if err := cm.Feed(); err != nil {
		return cm, fmt.Errorf("could not feed config: %v", err)
	}

	return cm, nil
}

// AddFeeder adds a feeder that provides configuration data.
func (cm *ConfigManager) AddFeeder(f Feeder) *ConfigManager {
	cm.Feeders = append(cm.Feeders, f)
	return cm
}

// Feed binds configuration data from added feeders to the configuration.
func (cm *ConfigManager) Feed() error {
	for _, f := range cm.Feeders {
		if err := f.Feed(cm.Config); err != nil {
			return fmt.Errorf("failed to feed config: %v", err)
		}
	}

	return nil
}

func (cm *ConfigManager) Write(merge bool) error {
	for _, f := range cm.Feeders {
		if err := f.Write(cm.Config, merge); err != nil {
			return err
		}
	}

	return nil
}
