package geometry

// Triangulate splits a simple polygon (convex or concave) into triangles by
// ear clipping. The returned indices refer to points and are wound
// counter-clockwise regardless of the input winding. Degenerate input
// (fewer than 3 points, zero area, non-finite coordinates) yields nil.
func Triangulate(points []Vector2) []int {
	n := len(points)
	if n < 3 {
		return nil
	}
	for _, p := range points {
		if !p.IsFinite() {
			return nil
		}
	}
	area := SignedArea(points)
	if area == 0 {
		return nil
	}

	// Work on a CCW index ring
	ring := make([]int, n)
	for i := range ring {
		if area > 0 {
			ring[i] = i
		} else {
			ring[i] = n - 1 - i
		}
	}

	indices := make([]int, 0, (n-2)*3)
	guard := 0
	for len(ring) > 3 {
		clipped := false
		for i := 0; i < len(ring); i++ {
			prev := ring[(i+len(ring)-1)%len(ring)]
			cur := ring[i]
			next := ring[(i+1)%len(ring)]
			if !isEar(points, ring, prev, cur, next) {
				continue
			}
			indices = append(indices, prev, cur, next)
			ring = append(ring[:i], ring[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Self-intersecting or numerically collinear remainder: fan the
			// rest so the caller still gets a closed surface.
			guard++
			if guard > 1 {
				for i := 1; i+1 < len(ring); i++ {
					indices = append(indices, ring[0], ring[i], ring[i+1])
				}
				return indices
			}
			ring = dropCollinear(points, ring)
		}
	}
	if len(ring) == 3 {
		indices = append(indices, ring[0], ring[1], ring[2])
	}
	return indices
}

func isEar(points []Vector2, ring []int, prev, cur, next int) bool {
	a, b, c := points[prev], points[cur], points[next]
	if b.Sub(a).Cross(c.Sub(b)) <= 0 {
		return false // reflex or flat
	}
	for _, idx := range ring {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		if pointInTriangle(points[idx], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c Vector2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

func dropCollinear(points []Vector2, ring []int) []int {
	out := make([]int, 0, len(ring))
	for i, cur := range ring {
		prev := points[ring[(i+len(ring)-1)%len(ring)]]
		next := points[ring[(i+1)%len(ring)]]
		if points[cur].Sub(prev).Cross(next.Sub(points[cur])) == 0 {
			continue
		}
		out = append(out, cur)
	}
	if len(out) < 3 {
		return ring
	}
	return out
}
