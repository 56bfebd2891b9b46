package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/internal/app"
	"github.com/philipparndt/yardplan/version"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "yardplan <scene.db>",
	Short:   "Playground layout editor",
	Long:    `Yardplan lays out play areas in 3D: draw floors and fences, place equipment and get a live quote.`,
	Args:    cobra.ExactArgs(1),
	Version: version.GetFullVersion(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(app.Options{
			ScenePath:  args[0],
			ConfigPath: configPath,
			Log:        NewLogger(verbose),
		})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "yardplan.yaml", "configuration file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// NewLogger returns the text logger used by all commands
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
