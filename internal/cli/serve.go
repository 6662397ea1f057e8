package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bluenet-io/bluenet/internal/config"
	"github.com/bluenet-io/bluenet/internal/geojson"
	"github.com/bluenet-io/bluenet/internal/server"
)

var (
	serveConfig string
	servePort   int
	serveFeed   bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "bluenet.yaml", "Path to configuration YAML")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP listen port (overrides config)")
	serveCmd.Flags().BoolVar(&serveFeed, "feed", false, "Start the synthetic boundary test feed immediately")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the boundary monitoring server",
	Long: "Runs the HTTP server: GPS ingest, status API, dashboard, and test feed\n" +
		"controls. Alert settings hot-reload when the config file changes.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.ListenPort = servePort
	}
	if serveFeed {
		cfg.Feed.Autostart = true
	}

	// First run convenience: materialize the demo geometry so the
	// server can start without hand-written GeoJSON.
	if err := geojson.WriteDemoFiles(cfg.ZoneFile, cfg.BoundaryFile); err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloader, err := server.NewReloader(srv, serveConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	} else {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "bluenet monitoring on :%d (zone %s)\n", cfg.ListenPort, cfg.ZoneFile)
	if cfg.Alert.URL == "" {
		fmt.Fprintln(os.Stderr, "alerts: simulated (no webhook configured)")
	}

	return srv.Serve()
}
