package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/counciltech/intake/pkg/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog.yaml]",
	Short: "Validate a conversation catalog",
	Long:  `Checks a catalog for authoring defects: dangling next-node references, options with no outcome, unreachable nodes, and duplicate names.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat, name, err := resolveCatalog(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if err := cat.Validate(); err != nil {
			fmt.Printf("Catalog %s is invalid: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("Catalog %s is valid: %d nodes, %d slots\n", name, len(cat.Nodes), len(cat.Slots))
	},
}

// resolveCatalog picks the catalog from the positional argument, the
// --catalog flag, or the built-in default, in that order.
func resolveCatalog(cmd *cobra.Command, args []string) (*catalog.Catalog, string, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		path = v
	}

	if path == "" {
		return catalog.Procurement(), "built-in", nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, path, err
	}
	return cat, path, nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
