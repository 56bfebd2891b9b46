package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/internal/catalog"
	"github.com/philipparndt/yardplan/internal/config"
	"github.com/philipparndt/yardplan/internal/scenestore"
	"github.com/philipparndt/yardplan/version"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "yardplan",
	Short: "Inspect, price and serve playground layouts",
	Long: `yardplan works on scenes saved by the editor. It prices layouts,
reports their dimensions, previews fence presets and serves scenes over HTTP.`,
	Version:      version.GetFullVersion(),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "yardplan.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// loadCatalog reads the configured catalog, falling back to the built-in one
// when the file does not exist
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	path := config.Resolve(configPath, cfg.Catalog)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func openScene(path string) (*scenestore.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return scenestore.Open(context.Background(), path, logger())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
