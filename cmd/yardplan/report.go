package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/pkg/analysis"
)

var (
	reportLongest int
	reportJSON    bool
)

var reportCmd = &cobra.Command{
	Use:   "report [scene.db]",
	Short: "Display dimensions of a scene",
	Long:  "Show entity counts, floor area, fence length, the footprint of the layout and its longest edges.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVarP(&reportLongest, "longest", "n", 5, "number of longest edges to list")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	store, err := openScene(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	r := analysis.AnalyzeScene(store.Items())
	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Println("Scene Report")
	fmt.Println("============")
	fmt.Printf("File: %s\n\n", args[0])

	fmt.Println("Entities:")
	for kind, n := range r.Counts {
		fmt.Printf("  %s: %d\n", kind, n)
	}
	fmt.Printf("  Total: %d\n\n", r.Entities)

	fmt.Println("Totals:")
	fmt.Printf("  Floor area: %s\n", analysis.FormatMeasurement(r.FloorArea, "m²"))
	fmt.Printf("  Fence length: %s\n\n", analysis.FormatMeasurement(r.FenceLength, "m"))

	if r.Entities > 0 {
		fmt.Println("Footprint:")
		fmt.Printf("  Min: %s\n", analysis.FormatVector(r.Footprint.Min))
		fmt.Printf("  Max: %s\n", analysis.FormatVector(r.Footprint.Max))
		size := r.Footprint.Size()
		fmt.Printf("  Size: %.3f × %.3f m\n\n", size.X, size.Z)
	}

	if longest := analysis.LongestSegments(r, reportLongest); len(longest) > 0 {
		fmt.Println("Longest edges:")
		for i, s := range longest {
			fmt.Printf("  %d. %s  %s → %s\n", i+1, analysis.FormatMeasurement(s.Length, "m"),
				analysis.FormatVector(s.Start), analysis.FormatVector(s.End))
		}
	}
	return nil
}
