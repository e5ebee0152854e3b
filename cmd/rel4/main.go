// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package main

import (
	"os"

	"rel4kit.sh/internal/cli/rel4"
)

func main() {
	os.Exit(rel4.Main(os.Args[1:]))
}
