package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pharma-console/internal/dashboard"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pharma-console",
		Short:         "Process monitoring dashboard shell",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "routes",
		Short: "Print the route table in declaration order",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := dashboard.RouteTable()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range table.Routes() {
				fmt.Fprintf(out, "%-24s %-22s %s\n", r.Pattern, r.Name, r.Kind)
			}
			return nil
		},
	})

	return root
}
