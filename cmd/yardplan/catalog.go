package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [catalog.yaml]",
	Short: "List products and fence presets",
	Long:  "Validate a product catalog and list its entries. Without an argument the configured catalog is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	var (
		cat *catalog.Catalog
		err error
	)
	if len(args) == 1 {
		cat, err = catalog.Load(args[0])
	} else {
		cfg, cerr := loadConfig()
		if cerr != nil {
			return cerr
		}
		cat, err = loadCatalog(cfg)
	}
	if err != nil {
		return err
	}

	fmt.Println("Products")
	fmt.Println("========")
	for _, p := range cat.Products() {
		switch {
		case p.Price > 0:
			fmt.Printf("  %-20s %-6s %-28s %10.2f\n", p.ID, p.Type, p.Name, p.Price)
		case p.Rate > 0:
			fmt.Printf("  %-20s %-6s %-28s %10.2f /unit\n", p.ID, p.Type, p.Name, p.Rate)
		default:
			fmt.Printf("  %-20s %-6s %s\n", p.ID, p.Type, p.Name)
		}
	}

	fmt.Println("\nFence presets")
	fmt.Println("=============")
	for _, id := range cat.PresetIDs() {
		p := cat.Preset(id)
		fmt.Printf("  %-12s %-20s height %.2f m\n", p.ID, p.Name, p.Height)
	}
	return nil
}
