package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aishoubot/aishou/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "aishou",
	Short:        "LINE talk-history compatibility analysis bot",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
