// Command rrtstar plans collision-free paths with RRT* from the command line
// or as an HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rrtstar-planner/internal/config"
	"rrtstar-planner/internal/logging"
)

var (
	configPath  string
	logLevel    string
	development bool

	appConfig config.Config
	logger    *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "rrtstar",
	Short: "Asymptotically optimal path planning on 2-D obstacle maps",
	Long: `rrtstar grows an RRT* tree from a start point toward a goal over a
raster or polygon obstacle map and reports the cheapest path found.

Examples:
  rrtstar plan --start 50,50 --goal 750,550 --map map.png
  rrtstar bench --trials 32 --parallel 8
  rrtstar serve --config config.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("dev") {
			cfg.Log.Development = development
		}

		l, err := logging.New(cfg.Log.Level, cfg.Log.Development)
		if err != nil {
			return err
		}
		appConfig, logger = cfg, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&development, "dev", false,
		"Human-readable console logs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
