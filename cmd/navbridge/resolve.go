package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	naverrors "github.com/vango-dev/navbridge/internal/errors"
	"github.com/vango-dev/navbridge/pkg/bridge"
	"github.com/vango-dev/navbridge/pkg/resolver"
	"github.com/vango-dev/navbridge/pkg/routes"
)

func resolveCmd(flags *configFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve URL...",
		Short: "Resolve URLs against the route table",
		Long: `Resolve each URL and print the route change payload the bridge would
deliver for it, one JSON document per URL.

Examples:
  navbridge resolve /users/42
  navbridge resolve '/a/t2/items/7?sort=asc#top' /settings`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}

			r := resolver.New(routes.Compile(cfg.Routes))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			for _, raw := range args {
				target, err := bridge.ParseTarget(raw)
				if err != nil {
					return naverrors.FromError(err, "E201").WithWhere(raw)
				}
				res, err := r.Resolve(cmd.Context(), target.Location)
				if err != nil {
					var nf *resolver.NotFoundError
					if errors.As(err, &nf) {
						return naverrors.FromError(err, "E200").
							WithWhere(raw).
							WithSuggestion("Run 'navbridge routes' to list the known paths")
					}
					return err
				}
				if err := enc.Encode(bridge.NewPayload(res, target, nil)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	return cmd
}
