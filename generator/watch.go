// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"rel4kit.sh/log"
)

// Watch calls onChange every time the file at path is written, created or
// renamed into place, until ctx is done.  The parent directory is watched so
// that editors which replace the file are followed.  An error returned by
// onChange is logged and does not stop the watch.
func Watch(ctx context.Context, path string, onChange func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("setting up file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("adding %s to watcher: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.G(ctx).Warnf("watching %s: %v", path, err)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != abs {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			log.G(ctx).WithField("manifest", path).Debug("changed")

			if err := onChange(ctx); err != nil {
				log.G(ctx).Error(err)
			}
		}
	}
}
