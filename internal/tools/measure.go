package tools

import "github.com/philipparndt/yardplan/pkg/geometry"

// MeasureTool measures the distance between two clicked points. A third
// click starts a new measurement.
type MeasureTool struct {
	sink   Sink
	points []geometry.Vector3
	cursor *geometry.Vector3
}

// NewMeasureTool publishes results to sink
func NewMeasureTool(sink Sink) *MeasureTool {
	if sink == nil {
		sink = Discard{}
	}
	return &MeasureTool{sink: sink}
}

// AddPoint records a click. On the second point the distance is published
// and returned with done set.
func (m *MeasureTool) AddPoint(p geometry.Vector3) (distance float64, done bool) {
	if !p.IsFinite() {
		return 0, false
	}
	if len(m.points) >= 2 {
		m.Reset()
	}
	m.points = append(m.points, p)
	if len(m.points) < 2 {
		return 0, false
	}
	d := m.points[0].Distance(m.points[1])
	m.sink.Publish(Result{Kind: ResultDistance, Value: d})
	return d, true
}

// SetCursor updates the live end of an open measurement
func (m *MeasureTool) SetCursor(p geometry.Vector3) {
	m.cursor = &p
}

// Points returns the measured points
func (m *MeasureTool) Points() []geometry.Vector3 {
	return append([]geometry.Vector3(nil), m.points...)
}

// Preview returns the line to draw with its live length
func (m *MeasureTool) Preview() ([]geometry.Vector3, float64) {
	switch {
	case len(m.points) == 2:
		return m.Points(), m.points[0].Distance(m.points[1])
	case len(m.points) == 1 && m.cursor != nil:
		return []geometry.Vector3{m.points[0], *m.cursor}, m.points[0].Distance(*m.cursor)
	default:
		return m.Points(), 0
	}
}

// Reset clears the measurement
func (m *MeasureTool) Reset() {
	m.points = nil
	m.cursor = nil
}
