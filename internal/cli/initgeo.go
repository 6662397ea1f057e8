package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluenet-io/bluenet/internal/config"
	"github.com/bluenet-io/bluenet/internal/geojson"
)

var initgeoConfig string

func init() {
	rootCmd.AddCommand(initgeoCmd)
	initgeoCmd.Flags().StringVar(&initgeoConfig, "config", "bluenet.yaml", "Path to configuration YAML")
}

var initgeoCmd = &cobra.Command{
	Use:   "initgeo",
	Short: "Write the demo zone and boundary GeoJSON files",
	Long: "Creates the demo maritime zone and reference boundary line at the\n" +
		"paths named in the configuration. Existing files are left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(initgeoConfig)
		if err != nil {
			return err
		}
		if err := geojson.WriteDemoFiles(cfg.ZoneFile, cfg.BoundaryFile); err != nil {
			return err
		}
		fmt.Printf("zone:     %s\nboundary: %s\n", cfg.ZoneFile, cfg.BoundaryFile)
		return nil
	},
}
