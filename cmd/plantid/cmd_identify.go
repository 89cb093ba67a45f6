package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/plantid/internal/service"
)

func newIdentifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <image>",
		Short: "Identify the plant in an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, cleanup, err := setup(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			ctx := commandContext(cmd)
			plants := service.NewPlantService(newModel(ctx, cfg, logger), logger)
			info, err := plants.Identify(ctx, base64.StdEncoding.EncodeToString(data))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}
