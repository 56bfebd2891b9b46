package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/yardplan/internal/export"
	"github.com/philipparndt/yardplan/internal/fence"
	"github.com/philipparndt/yardplan/internal/floor"
	"github.com/philipparndt/yardplan/internal/scene"
	"github.com/philipparndt/yardplan/pkg/geometry"
	"github.com/philipparndt/yardplan/pkg/stl"
)

var (
	fencePoints string
	fencePreset string
	fenceSTL    string
)

var fenceCmd = &cobra.Command{
	Use:   "fence",
	Short: "Preview the parts generated for a fence path",
	Long: `Generate a fence along a polyline and list its posts, rails and slats.
Points are given as "x,y;x,y;..." in metres on the ground plane.`,
	Example: `  yardplan fence --points "0,0;5,0;5,3" --preset picket --stl fence.stl`,
	RunE:    runFence,
}

func init() {
	rootCmd.AddCommand(fenceCmd)
	fenceCmd.Flags().StringVarP(&fencePoints, "points", "p", "", "fence path as x,y;x,y;...")
	fenceCmd.Flags().StringVar(&fencePreset, "preset", "classic", "fence preset id")
	fenceCmd.Flags().StringVar(&fenceSTL, "stl", "", "write the fence geometry to this STL file")
	_ = fenceCmd.MarkFlagRequired("points")
}

// parsePoints reads "x,y;x,y" into ground-plane points
func parsePoints(s string) ([]geometry.Vector2, error) {
	var out []geometry.Vector2
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("invalid point %q", pair)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", pair, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", pair, err)
		}
		out = append(out, geometry.NewVector2(x, y))
	}
	return out, nil
}

func runFence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	points, err := parsePoints(fencePoints)
	if err != nil {
		return err
	}
	if len(points) < scene.KindFence.MinPoints() {
		return fmt.Errorf("a fence needs at least %d points", scene.KindFence.MinPoints())
	}

	local, center := geometry.Recenter(points)
	fc := scene.FenceConfig{Preset: fencePreset, PostColor: "#6b4f3a"}
	e := scene.NewFence("", "fence", center.Lift(0), local, fc)

	preset := cat.Preset(fencePreset)
	builder := fence.NewBuilder(cfg.Geometry.FenceModuleLength)
	asm := builder.Build(e.Points, preset, fc)

	fmt.Println("Fence Preview")
	fmt.Println("=============")
	fmt.Printf("Preset: %s (%s)\n", preset.ID, preset.Name)
	fmt.Printf("Length: %.3f m\n", geometry.PathLength(points))
	fmt.Printf("Height: %.3f m\n\n", preset.Height)
	fmt.Printf("  Posts: %d\n", len(asm.Posts.Instances))
	fmt.Printf("  Rails: %d\n", len(asm.Rails.Instances))
	fmt.Printf("  Slats: %d\n", len(asm.Slats.Instances))
	fmt.Printf("  Total: %d\n", asm.InstanceCount())
	if asm.Skipped > 0 {
		fmt.Printf("  Skipped: %d degenerate\n", asm.Skipped)
	}

	if fenceSTL == "" {
		return nil
	}
	x := &export.Exporter{
		Floors:  floor.NewBuilder(cfg.Geometry.FloorThickness),
		Fences:  builder,
		Presets: cat,
	}
	model, _, err := x.Scene(cmd.Context(), []scene.Entity{e})
	if err != nil {
		return err
	}
	f, err := os.Create(fenceSTL)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := stl.WriteBinary(f, model); err != nil {
		return fmt.Errorf("failed to write %s: %w", fenceSTL, err)
	}
	fmt.Printf("\nWrote %d triangles to %s\n", model.TriangleCount(), fenceSTL)
	return nil
}
