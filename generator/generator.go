// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generator

import (
	"context"
	"path/filepath"

	"rel4kit.sh/log"
	"rel4kit.sh/manifest"
)

// Artifact is a rendered file.
type Artifact struct {
	// Path is relative to the kernel crate.
	Path    string
	Content []byte
}

type Generator struct {
	// Root is the kernel crate the artifact paths are relative to.
	Root string

	// WithConfig additionally renders the configuration header and constants.
	WithConfig bool

	// Overrides are KEY[=VALUE] definitions applied on top of the manifest
	// definitions, e.g. the kernel macros of the build.
	Overrides []string
}

// Render produces the artifacts of m without touching the filesystem.
func (g *Generator) Render(m *manifest.Manifest) ([]Artifact, error) {
	linker, err := Linker(m)
	if err != nil {
		return nil, err
	}

	artifacts := []Artifact{
		{Path: LinkerPath, Content: linker},
		{Path: RegionsPath, Content: Regions(m)},
	}

	if g.WithConfig {
		defs := MergeDefinitions(m.Definitions, g.Overrides)
		artifacts = append(artifacts,
			Artifact{Path: ConfigHeaderPath, Content: ConfigHeader(defs)},
			Artifact{Path: ConfigRustPath, Content: ConfigRust(defs)},
		)
	}

	return artifacts, nil
}

// Generate renders every artifact of m and then writes them under Root.  No
// destination is replaced unless every artifact was rendered and staged.  It
// returns the written paths.
func (g *Generator) Generate(ctx context.Context, m *manifest.Manifest) ([]string, error) {
	artifacts, err := g.Render(m)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, len(artifacts))
	order := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		path := filepath.Join(g.Root, artifact.Path)
		files[path] = artifact.Content
		order = append(order, path)
	}

	paths, err := WriteFiles(files, order)
	for _, path := range paths {
		log.G(ctx).WithField("manifest", m.Path).Infof("generated %s", path)
	}

	return paths, err
}
