package measurement

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Label represents a label for rendering measurements
type Label struct {
	Text       string
	ScreenPos  rl.Vector2
	BaseColor  rl.Color
	IsSelected bool
}

// Bounds returns the rectangle the label occupies when drawn
func (l *Label) Bounds(font rl.Font, fontSize float32, padding float32) rl.Rectangle {
	textSize := rl.MeasureTextEx(font, l.Text, fontSize, 1)
	return rl.Rectangle{
		X:      l.ScreenPos.X - textSize.X/2 - padding,
		Y:      l.ScreenPos.Y - padding,
		Width:  textSize.X + 2*padding,
		Height: textSize.Y + 2*padding,
	}
}

// Draw renders the measurement label and returns its bounding rectangle
func (l *Label) Draw(font rl.Font, fontSize float32, padding float32) rl.Rectangle {
	borderWidth := float32(2)
	if l.IsSelected {
		borderWidth = 3
	}

	rect := l.Bounds(font, fontSize, padding)
	rl.DrawRectangleRec(rect, rl.NewColor(20, 20, 20, 220))
	rl.DrawRectangleLinesEx(rect, borderWidth, l.BaseColor)

	textPos := rl.Vector2{X: rect.X + padding, Y: l.ScreenPos.Y}
	rl.DrawTextEx(font, l.Text, textPos, fontSize, 1, l.BaseColor)

	return rect
}

// overlapsAny reports whether r intersects any of the drawn rectangles
func overlapsAny(r rl.Rectangle, drawn []rl.Rectangle) bool {
	for _, d := range drawn {
		if r.X < d.X+d.Width && r.X+r.Width > d.X && r.Y < d.Y+d.Height && r.Y+r.Height > d.Y {
			return true
		}
	}
	return false
}
