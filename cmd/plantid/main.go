package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "plantid",
		Short: "Plant identification, care guides and nursery lookup",
		Long: `plantid identifies plants from photos with a vision model, produces care
guides, and finds nearby garden centres through Google Places.

Run "plantid serve" to start the HTTP API.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file (default: $CONFIG_FILE)")

	root.AddCommand(
		newServeCmd(opts),
		newIdentifyCmd(opts),
		newCareCmd(opts),
		newNurseriesCmd(opts),
	)
	return root
}
