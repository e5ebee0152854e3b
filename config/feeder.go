// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

// Feeder is a source of configuration values.
type Feeder interface {
	Feed(structure interface{}) error
	Write(structure interface{}, merge bool) error
}
