// Command server runs the TalentFlow assignment API. Wiring lives in
// serve.go; business logic lives in the internal services packages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "TalentFlow form assignment and access-policy service",
	Long: `TalentFlow assigns HR forms to employees and enforces the
role-based access policy over performance and mental-health data.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
