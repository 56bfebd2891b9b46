package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/internal/assets"
	"github.com/philipparndt/yardplan/internal/config"
	"github.com/philipparndt/yardplan/internal/export"
	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/floor"
)

var exportNoModels bool

var exportCmd = &cobra.Command{
	Use:   "export [scene.db] [out.stl]",
	Short: "Export a scene as a single STL mesh",
	Long: `Combine every floor, fence and model of a scene into one binary STL in
world coordinates. Models whose asset cannot be loaded are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportNoModels, "no-models", false, "leave equipment models out")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	store, err := openScene(args[0])
	if err != nil {
		return err
	}
	defer store.Close()

	x := &export.Exporter{
		Floors:  floor.NewBuilder(cfg.Geometry.FloorThickness),
		Fences:  fence.NewBuilder(cfg.Geometry.FenceModuleLength),
		Presets: cat,
	}
	if !exportNoModels {
		reporter := assets.ReporterFunc(func(url string, err error) {
			log.Warn("model skipped", "asset", url, "error", err)
		})
		fetcher := assets.NewSchemeFetcher(config.Resolve(configPath, cfg.AssetDir))
		x.Templates = assets.NewLoader(fetcher, reporter, log)
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := x.Write(cmd.Context(), f, store.Items())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported %s\n", args[1])
	fmt.Printf("  Floors: %d\n", st.Floors)
	fmt.Printf("  Fences: %d\n", st.Fences)
	fmt.Printf("  Models: %d\n", st.Models)
	if st.Skipped > 0 {
		fmt.Printf("  Skipped: %d\n", st.Skipped)
	}
	return nil
}
