// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command newsdeskctl is the operator CLI for a newsdesk database.
package main

import (
	"os"

	"github.com/danielhkuo/newsdesk/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
