// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// staged is a fully written temporary file waiting to be renamed over path.
type staged struct {
	path string
	tmp  string
}

func stage(path string, data []byte) (s staged, err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return s, fmt.Errorf("could not create temporary file for %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return s, fmt.Errorf("could not write %s: %w", path, err)
	}

	if err = tmp.Sync(); err != nil {
		return s, fmt.Errorf("could not sync %s: %w", path, err)
	}

	if err = tmp.Chmod(0o644); err != nil {
		return s, fmt.Errorf("could not set mode of %s: %w", path, err)
	}

	if err = tmp.Close(); err != nil {
		return s, fmt.Errorf("could not close %s: %w", path, err)
	}

	return staged{path: path, tmp: tmp.Name()}, nil
}

// WriteFiles replaces every path of files with its content.  All contents are
// staged in temporary files next to their destination before the first rename,
// so a failure while writing leaves every destination untouched.  Directories
// must exist.  It returns the replaced paths in order.
func WriteFiles(files map[string][]byte, order []string) ([]string, error) {
	pending := make([]staged, 0, len(order))

	cleanup := func(from int) {
		for _, s := range pending[from:] {
			_ = os.Remove(s.tmp)
		}
	}

	for _, path := range order {
		s, err := stage(path, files[path])
		if err != nil {
			cleanup(0)
			return nil, err
		}
		pending = append(pending, s)
	}

	done := make([]string, 0, len(pending))
	for i, s := range pending {
		if err := os.Rename(s.tmp, s.path); err != nil {
			cleanup(i)
			return done, fmt.Errorf("could not replace %s: %w", s.path, err)
		}
		done = append(done, s.path)
	}

	return done, nil
}

// WriteFile atomically replaces path with data.  Readers observe either the
// old or the new content.
func WriteFile(path string, data []byte) error {
	_, err := WriteFiles(map[string][]byte{path: data}, []string{path})
	return err
}
