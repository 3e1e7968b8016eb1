package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/shortlinks/internal/openapi"
)

func newOpenAPICmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the API document",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			switch format {
			case "json":
				raw, err = openapi.JSON()
			case "yaml":
				raw, err = openapi.YAML()
			default:
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}
