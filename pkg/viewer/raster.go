package viewer

import (
	"image"
	"image/color"
	"math"
)

// fillTriangle fills a triangle using a scanline algorithm
func fillTriangle(img *image.RGBA, x1, y1, x2, y2, x3, y3 float64, col color.RGBA) {
	vertices := [3][2]float64{{x1, y1}, {x2, y2}, {x3, y3}}

	// Sort vertices by Y coordinate (top to bottom)
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	if vertices[1][1] > vertices[2][1] {
		vertices[1], vertices[2] = vertices[2], vertices[1]
	}
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}

	x1, y1 = vertices[0][0], vertices[0][1]
	x2, y2 = vertices[1][0], vertices[1][1]
	x3, y3 = vertices[2][0], vertices[2][1]

	bounds := img.Bounds()

	for y := int(math.Max(0, math.Ceil(y1))); y <= int(math.Min(float64(bounds.Max.Y-1), y3)); y++ {
		fy := float64(y)

		var xs [3]float64
		n := 0
		if y1 != y2 && fy >= y1 && fy <= y2 {
			xs[n] = x1 + (fy-y1)/(y2-y1)*(x2-x1)
			n++
		}
		if y2 != y3 && fy >= y2 && fy <= y3 {
			xs[n] = x2 + (fy-y2)/(y3-y2)*(x3-x2)
			n++
		}
		if y1 != y3 && fy >= y1 && fy <= y3 {
			xs[n] = x1 + (fy-y1)/(y3-y1)*(x3-x1)
			n++
		}
		if n < 2 {
			continue
		}

		xStart := math.Min(xs[0], xs[1])
		xEnd := math.Max(xs[0], xs[1])
		if n == 3 {
			xStart = math.Min(xStart, xs[2])
			xEnd = math.Max(xEnd, xs[2])
		}
		xStart = math.Max(0, math.Round(xStart))
		xEnd = math.Min(float64(bounds.Max.X-1), math.Round(xEnd))

		for x := int(xStart); x <= int(xEnd); x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy

	for {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawThickLine draws a line of the given pixel width as two triangles
func drawThickLine(img *image.RGBA, x1, y1, x2, y2, width float64, col color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if width <= 1 || length == 0 {
		drawLine(img, int(math.Round(x1)), int(math.Round(y1)), int(math.Round(x2)), int(math.Round(y2)), col)
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	fillTriangle(img, x1+nx, y1+ny, x2+nx, y2+ny, x2-nx, y2-ny, col)
	fillTriangle(img, x1+nx, y1+ny, x2-nx, y2-ny, x1-nx, y1-ny, col)
}

// fillDisc fills a circle around (cx, cy)
func fillDisc(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := img.Bounds()
	y0 := int(math.Max(0, math.Floor(cy-r)))
	y1 := int(math.Min(float64(bounds.Max.Y-1), math.Ceil(cy+r)))
	x0 := int(math.Max(0, math.Floor(cx-r)))
	x1 := int(math.Min(float64(bounds.Max.X-1), math.Ceil(cx+r)))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if math.Hypot(float64(x)-cx, float64(y)-cy) <= r {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
