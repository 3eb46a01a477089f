// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/geniehub/locator/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
