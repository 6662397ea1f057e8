package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluenet-io/bluenet/internal/config"
	"github.com/bluenet-io/bluenet/internal/engine"
	"github.com/bluenet-io/bluenet/internal/geojson"
	"github.com/bluenet-io/bluenet/internal/model"
)

var (
	checkConfig string
	checkLat    float64
	checkLon    float64
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkConfig, "config", "bluenet.yaml", "Path to configuration YAML")
	checkCmd.Flags().Float64Var(&checkLat, "lat", 0, "Latitude (required)")
	checkCmd.Flags().Float64Var(&checkLon, "lon", 0, "Longitude (required)")
	checkCmd.MarkFlagRequired("lat")
	checkCmd.MarkFlagRequired("lon")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify a single position against the zone",
	Long: "One-shot containment check: loads the zone geometry, evaluates the\n" +
		"position, and prints the decision as JSON. No state is persisted and\n" +
		"no alert is sent.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(checkConfig)
	if err != nil {
		return err
	}

	region, err := geojson.LoadRegion(cfg.ZoneFile, cfg.BoundaryFile)
	if err != nil {
		return err
	}

	eng, err := engine.New(region, engine.Config{
		Cooldown:                 cfg.Escalation.Cooldown(),
		MaxEscalationsPerEpisode: cfg.Escalation.MaxPerEpisode,
		StartInside:              cfg.Escalation.StartInside,
	}, nil)
	if err != nil {
		return err
	}

	rec, err := eng.Observe(model.Position{Latitude: checkLat, Longitude: checkLon})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
