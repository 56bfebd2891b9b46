package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/internal/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price [scene.db]",
	Short: "Print the quote for a scene",
	Long:  "Price every item of a scene with the configured rates and print the breakdown and total.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openScene(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	calc := pricing.New(cfg.Pricing.AreaRate, cfg.Pricing.LengthRate)
	lines, total := calc.Breakdown(store.Items())

	fmt.Println("Quote")
	fmt.Println("=====")
	for _, l := range lines {
		fmt.Printf("  %-28s %10.2f %-4s x %8.2f = %10.2f %s\n", l.Name, l.Quantity, l.Unit, l.Rate, l.Price, cfg.Pricing.Currency)
	}
	fmt.Printf("\nTotal: %.2f %s\n", total, cfg.Pricing.Currency)
	return nil
}
