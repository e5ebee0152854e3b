// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YamlFeeder reads and writes the rel4kit configuration file.
type YamlFeeder struct {
	File string
}

// Feed decodes the file into structure.  An empty file leaves it unchanged and
// keys the structure does not know are ignored.
func (yf YamlFeeder) Feed(structure interface{}) error {
	data, err := os.ReadFile(filepath.Clean(yf.File))
	if err != nil {
		return fmt.Errorf("cannot open config file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := yaml.Unmarshal(data, structure); err != nil {
		return fmt.Errorf("%s: %w", yf.File, err)
	}

	return nil
}

// Write serializes structure to the file.  With merge, the existing document
// is updated in place: its comments, key order and keys unknown to structure
// survive, while every value held by structure replaces the one on disk.
func (yf YamlFeeder) Write(structure interface{}, merge bool) error {
	if len(yf.File) == 0 {
		return fmt.Errorf("filename for YAML cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(yf.File), 0o755); err != nil {
		return pathError(err)
	}

	var values yaml.Node
	if err := values.Encode(structure); err != nil {
		return err
	}

	doc := &values
	if merge {
		existing, err := yf.document()
		if err != nil {
			return err
		}

		if existing != nil {
			if err := overlay(existing.Content[0], &values); err != nil {
				return fmt.Errorf("could not update %s: %w", yf.File, err)
			}
			doc = existing
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(yf.File, out, 0o600)
}

// document returns the parsed file, or nil when the file is missing or empty.
func (yf YamlFeeder) document() (*yaml.Node, error) {
	data, err := os.ReadFile(yf.File)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", yf.File, err)
	}

	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return &doc, nil
	}

	return nil, nil
}

// overlay copies every key of the mapping src into the mapping dst.  Nested
// mappings are merged key by key, anything else replaces the value in dst.
func overlay(dst, src *yaml.Node) error {
	if dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", dst.Line)
	}

	for i := 0; i+1 < len(src.Content); i += 2 {
		key, value := src.Content[i], src.Content[i+1]

		j := mappingIndex(dst, key.Value)
		switch {
		case j < 0:
			dst.Content = append(dst.Content, key, value)
		case dst.Content[j+1].Kind == yaml.MappingNode && value.Kind == yaml.MappingNode:
			if err := overlay(dst.Content[j+1], value); err != nil {
				return fmt.Errorf("%s: %w", key.Value, err)
			}
		default:
			// Keep the comments attached to the old value.
			value.HeadComment = dst.Content[j+1].HeadComment
			value.LineComment = dst.Content[j+1].LineComment
			dst.Content[j+1] = value
		}
	}

	return nil
}

func mappingIndex(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Kind == yaml.ScalarNode && m.Content[i].Value == key {
			return i
		}
	}

	return -1
}
