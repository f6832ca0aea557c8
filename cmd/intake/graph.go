package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/counciltech/intake/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph [catalog.yaml]",
	Short: "Print the decision tree as a Mermaid flowchart",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat, _, err := resolveCatalog(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(graph.GenerateMermaid(cat))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
