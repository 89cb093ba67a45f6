package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/plantid/internal/service"
)

func newCareCmd(opts *rootOptions) *cobra.Command {
	var withLinks bool

	cmd := &cobra.Command{
		Use:   "care <plant name>",
		Short: "Print a care guide for a plant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.New("plant name is required")
			}

			cfg, logger, cleanup, err := setup(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := commandContext(cmd)
			plants := service.NewPlantService(newModel(ctx, cfg, logger), logger)
			care := plants.CareGuide(ctx, name)
			if !withLinks {
				return printJSON(cmd.OutOrStdout(), care)
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"careInstructions": care,
				"links":            service.BuyLinks(name),
			})
		},
	}
	cmd.Flags().BoolVar(&withLinks, "links", false, "include retailer links")
	return cmd
}
