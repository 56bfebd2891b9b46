package geometry

import "math"

// AngleAt returns the angle in degrees between the vectors a→pivot and
// c→pivot. Degenerate (zero-length) arms give 0.
func AngleAt(a, pivot, c Vector3) float64 {
	u := a.Sub(pivot)
	w := c.Sub(pivot)
	lu, lw := u.Length(), w.Length()
	if lu == 0 || lw == 0 {
		return 0
	}
	cos := u.Dot(w) / (lu * lw)
	// acos is undefined just outside [-1, 1]
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// AtDistance moves p along the anchor→p direction so that it ends up exactly
// length away from anchor. If p coincides with anchor the +X direction is used.
func AtDistance(anchor, p Vector3, length float64) Vector3 {
	dir := p.Sub(anchor).Normalize()
	if dir == (Vector3{}) {
		dir = Vector3{X: 1}
	}
	return anchor.Add(dir.Mul(length))
}

// AtAngle places move around pivot on the ground plane so that the angle
// ref→pivot→move equals degrees, keeping move's distance to pivot and its
// height. The result stays on the side of the reference ray move was on;
// collinear input turns counter-clockwise.
func AtAngle(ref, pivot, move Vector3, degrees float64) Vector3 {
	refDir := ref.Sub(pivot).Ground()
	arm := move.Sub(pivot).Ground()
	radius := arm.Length()
	if refDir.Length() == 0 {
		refDir = Vector2{X: 1}
	}
	side := 1.0
	if refDir.Cross(arm) < 0 {
		side = -1
	}
	dir := refDir.Normalize().Rotate(side * degrees * math.Pi / 180)
	p := dir.Mul(radius)
	return Vector3{X: pivot.X + p.X, Y: move.Y, Z: pivot.Z + p.Y}
}
