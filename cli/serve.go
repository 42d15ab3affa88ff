package cli

import (
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"geoplot-server/config"
	"geoplot-server/di"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chart HTTP server",
		Long:  "Loads the configuration, wires the container and serves until interrupted.",
		Run:   runServe,
	}

	cmd.Flags().String("config", "", "Config file path (default: $GEOPLOT_CONFIG)")
	cmd.Flags().String("env", "", "Override the environment (prod wires the real API and Redis)")
	cmd.Flags().String("addr", "", "Override the listen address")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		os.Setenv("GEOPLOT_CONFIG", path)
	}
	cfg, err := config.Load()
	if err != nil {
		exitErr("load config", err)
	}
	if env, _ := cmd.Flags().GetString("env"); env != "" {
		cfg.Env = env
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	container := di.NewContainer(cfg)

	log.Println("Refreshing operations snapshot")
	if err := container.OperationsRefresherService.RefreshOperations(); err != nil {
		log.Printf("Initial operations refresh failed: %v", err)
	}
	container.OperationsRefresherService.StartPeriodicJob(time.Duration(cfg.RefresherScheduleMinutes) * time.Minute)

	container.GeoPlotHttpServer.Start()
}
