package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/navbridge/pkg/routes"
)

func routesCmd(flags *configFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route tree",
		Long: `Load and validate the route table, then print the tree the resolver
matches against. Leaf nodes are marked with "•".

Examples:
  navbridge routes
  navbridge routes -c routes.yaml
  navbridge routes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.Routes)
			}

			routes.Walk(routes.Compile(cfg.Routes), func(n *routes.MatchNode, depth int) {
				marker := " "
				if n.IsLeaf() {
					marker = "•"
				}
				fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), marker, n.Path)
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the route definitions as JSON")

	return cmd
}
