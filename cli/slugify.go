// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/newsdesk/slug"
)

// NewSlugifyCommand creates the slugify command.
func NewSlugifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slugify <title>",
		Short: "Print the slug an article title gets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), slug.Make(strings.Join(args, " ")))
			return nil
		},
	}
}
