package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/JYunth/wattswap-sim-backend/docs"
)

var configPath string

// @title                       WattSwap Simulator API
// @version                     1.0
// @description                 Prosumer meter simulation with a per-meter energy market.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
var rootCmd = &cobra.Command{
	Use:   "wattswap",
	Short: "Prosumer meter simulator and energy market",
	Long: `wattswap simulates solar, battery, EV and grid flows for a set of
prosumer meters and settles their energy orders against a time-of-day price.

Without a subcommand it runs the HTTP server (same as 'wattswap serve').`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default configs/config.yml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
