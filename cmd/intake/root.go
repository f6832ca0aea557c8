package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake is a conversational procurement intake assistant",
	Long: `Intake walks users through a procurement decision process in plain
language, collecting answers via a decision tree or a slot-filling form and
producing a contract recommendation.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML catalog (default: built-in procurement catalog)")
	rootCmd.PersistentFlags().String("mode", "", "Answer-collection mode: tree or slots")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}
