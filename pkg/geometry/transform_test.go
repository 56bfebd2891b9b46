package geometry

import (
	"math"
	"testing"
)

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{
		Position: NewVector3(3, 0, -2),
		Rotation: NewVector3(0, math.Pi/3, 0),
		Scale:    NewVector3(2, 1, 0.5),
	}
	local := NewVector2(1.5, -4)

	world := tr.ToWorld(local)
	back, ok := tr.ToLocal(world)
	if !ok {
		t.Fatalf("transform should be invertible")
	}
	if back.Distance(local) > 1e-9 {
		t.Errorf("round trip failed: expected %v, got %v", local, back)
	}
}

func TestTransformIdentity(t *testing.T) {
	tr := NewTransform(NewVector3(5, 0, 5))
	world := tr.ToWorld(NewVector2(1, 1))

	if world.Distance(NewVector3(6, 0, 6)) > 1e-12 {
		t.Errorf("translation failed: got %v", world)
	}
}

func TestInverseSingular(t *testing.T) {
	tr := Transform{Scale: NewVector3(0, 0, 0)}
	if _, ok := tr.ToLocal(NewVector3(1, 0, 1)); ok {
		t.Errorf("zero scale must not be invertible")
	}
}

func TestRotationYQuarterTurn(t *testing.T) {
	p := RotationY(math.Pi / 2).TransformPoint(NewVector3(1, 0, 0))
	if p.Distance(NewVector3(0, 0, -1)) > 1e-12 {
		t.Errorf("RotationY failed: got %v", p)
	}
}
