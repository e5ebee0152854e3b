// SPDX-License-Identifier: MIT
// Copyright (c) 2019, 2019 GitHub Inc.
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the MIT License (the "License").
// You may not use this file except in compliance with the License.
package cmdfactory

import (
	"os"

	"github.com/spf13/cobra"
)

// MaxDirArgs accepts at most n positional arguments, each of which must be an
// existing directory.
func MaxDirArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return FlagErrorf("expected no more than %d paths received %d", n, len(args))
		}

		for _, path := range args {
			f, err := os.Stat(path)
			if err != nil || !f.IsDir() {
				return FlagErrorf("path is not a valid directory: %s", path)
			}
		}

		return nil
	}
}

// DirArg returns the kernel crate named by the first positional argument, or
// fallback, usually the configured root, when none was given.
func DirArg(args []string, fallback string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}

	return fallback
}
