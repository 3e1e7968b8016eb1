package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/shortlinks/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "shortlinks "+build.String())
			return err
		},
	}
}
