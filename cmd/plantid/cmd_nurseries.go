package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/plantid/internal/domain"
	"github.com/vbonduro/plantid/internal/geo"
	"github.com/vbonduro/plantid/internal/places"
)

func newNurseriesCmd(opts *rootOptions) *cobra.Command {
	var (
		lat, lng float64
		query    string
	)

	cmd := &cobra.Command{
		Use:   "nurseries",
		Short: "Find garden centres near a coordinate or a place name",
		Example: `  plantid nurseries --lat 12.97 --lng 77.59
  plantid nurseries --query "Indiranagar, Bangalore"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			byCoord := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng")
			query = strings.TrimSpace(query)
			switch {
			case byCoord && query != "":
				return errors.New("use either --lat/--lng or --query, not both")
			case byCoord && !(cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")):
				return errors.New("both --lat and --lng are required")
			case !byCoord && query == "":
				return errors.New("either --lat/--lng or --query is required")
			}
			if byCoord {
				if err := geo.ValidateCoords(lat, lng); err != nil {
					return err
				}
			}

			cfg, logger, cleanup, err := setup(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			gateway := places.NewGateway(cfg.PlacesAPIKey, cfg.PlacesBaseURL)
			ctx := commandContext(cmd)

			var nurseries []domain.Nursery
			if byCoord {
				nurseries, err = gateway.NearbyByCoordinate(ctx, lat, lng)
			} else {
				nurseries, err = gateway.SearchByText(ctx, query)
			}
			if err != nil {
				logger.Debug("nursery lookup failed", "error", err)
				return err
			}
			if nurseries == nil {
				nurseries = []domain.Nursery{}
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"nurseries": nurseries})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude in degrees")
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text location")
	return cmd
}
