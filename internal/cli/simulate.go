package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bluenet-io/bluenet/internal/alert"
	"github.com/bluenet-io/bluenet/internal/config"
	"github.com/bluenet-io/bluenet/internal/engine"
	"github.com/bluenet-io/bluenet/internal/feed"
	"github.com/bluenet-io/bluenet/internal/geojson"
	"github.com/bluenet-io/bluenet/internal/model"
)

var (
	simConfig   string
	simScenario string
	simInterval time.Duration
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simConfig, "config", "bluenet.yaml", "Path to configuration YAML")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "", "Scenario YAML (default: built-in crossing demo)")
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 500*time.Millisecond, "Time between synthetic reports")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a boundary crossing scenario offline",
	Long: "Runs one pass of a waypoint scenario through an in-process engine and\n" +
		"prints each decision. Alerts are simulated to stderr; nothing is\n" +
		"persisted.",
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(simConfig)
	if err != nil {
		return err
	}

	if err := geojson.WriteDemoFiles(cfg.ZoneFile, cfg.BoundaryFile); err != nil {
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

	scenario := feed.Builtin()
	if simScenario != "" {
		scenario, err = feed.LoadScenario(simScenario)
		if err != nil {
			return err
		}
	}

	// One full pass: cancel once every waypoint's dwell has elapsed.
	var totalTicks int
	for _, wp := range scenario.Waypoints {
		ticks := int((wp.Duration + simInterval - 1) / simInterval)
		if ticks < 1 {
			ticks = 1
		}
		totalTicks += ticks
	}

	sim := &alert.Simulator{Out: os.Stderr}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen int
	runner, err := feed.NewRunner(scenario, simInterval, eng, func(rec model.DecisionRecord) {
		printDecision(rec)
		if rec.EscalationAuthorized {
			ev := alert.NewEvent(rec, cfg.Alert.Recipient)
			if err := sim.Dispatch(ctx, ev); err == nil {
				eng.RecordEscalation(time.Now(), true)
			}
		}
		seen++
		if seen >= totalTicks {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("scenario %q: %d waypoints, %d reports at %s intervals\n\n",
		scenario.Name, len(scenario.Waypoints), totalTicks, simInterval)

	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func printDecision(rec model.DecisionRecord) {
	side := "inside"
	if !rec.Inside {
		side = "OUTSIDE"
	}
	line := fmt.Sprintf("[%s] %.5f, %.5f  %s", rec.Timestamp.Format("15:04:05"), rec.Latitude, rec.Longitude, side)
	if rec.BoundaryCrossed {
		line += fmt.Sprintf("  << crossing #%d (%s)", rec.TotalCrossings, rec.CrossingDirection)
	}
	if rec.EscalationAuthorized {
		line += "  !! escalation"
	}
	fmt.Println(line)
}
