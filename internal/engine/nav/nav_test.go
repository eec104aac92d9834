package nav

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/atrium/internal/scene"
	"github.com/Faultbox/atrium/pkg/math"
)

const eps = 1e-3

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < eps
}

func newTestController() (*Controller, *scene.Store) {
	store := scene.New(nil)
	c := New(store, DefaultConfig())
	return c, store
}

func TestIdleIsNotNavigating(t *testing.T) {
	c, store := newTestController()

	for i := 0; i < 10; i++ {
		c.Update(0.016)
		if store.Snapshot().IsNavigating {
			t.Fatal("expected isNavigating false with no input")
		}
	}
}

func TestHeldKeyNavigates(t *testing.T) {
	c, store := newTestController()

	c.SetKey(KeyForward, true)
	c.Update(0.016)
	if !store.Snapshot().IsNavigating {
		t.Error("expected isNavigating true while a key is held")
	}

	c.SetKey(KeyForward, false)
	c.Update(0.016)
	if store.Snapshot().IsNavigating {
		t.Error("expected isNavigating false after release")
	}
}

func TestPointerCaptureNavigates(t *testing.T) {
	c, store := newTestController()

	c.SetPointerCaptured(true)
	c.Update(0.016)
	if !store.Snapshot().IsNavigating {
		t.Error("expected isNavigating true while pointer is captured")
	}

	c.SetPointerCaptured(false)
	c.Update(0.016)
	if store.Snapshot().IsNavigating {
		t.Error("expected isNavigating false after release")
	}
}

func TestForwardMovement(t *testing.T) {
	c, store := newTestController()
	c.SetPosition(math.Vec3{X: 0, Y: 1.7, Z: 8})

	// Yaw zero faces -Z; one second at default speed covers 5 units.
	c.SetKey(KeyForward, true)
	c.Update(1.0)

	got := c.Position()
	if !approx(got.X, 0) || !approx(got.Y, 1.7) || !approx(got.Z, 3) {
		t.Errorf("expected position (0, 1.7, 3), got %v", got)
	}
	if store.Snapshot().UserPosition != got {
		t.Errorf("expected position published, store has %v", store.Snapshot().UserPosition)
	}
}

func TestDiagonalMovementIsNormalized(t *testing.T) {
	c, _ := newTestController()
	c.SetPosition(math.Vec3{Y: 1.7})

	c.SetKey(KeyForward, true)
	c.SetKey(KeyRight, true)
	c.Update(1.0)

	got := c.Position()
	step := float32(5.0 / gomath.Sqrt2)
	if !approx(got.X, step) || !approx(got.Z, -step) {
		t.Errorf("expected diagonal step (%f, -, %f), got %v", step, -step, got)
	}

	// Combined displacement equals one second of movement speed.
	moved := got.Distance(math.Vec3{Y: 1.7})
	if !approx(moved, 5) {
		t.Errorf("expected 5 units of displacement, got %f", moved)
	}
}

func TestOpposingKeysCancel(t *testing.T) {
	c, store := newTestController()
	start := c.Position()

	c.SetKey(KeyLeft, true)
	c.SetKey(KeyRight, true)
	c.Update(1.0)

	if c.Position() != start {
		t.Errorf("expected no movement with opposing keys, got %v", c.Position())
	}
	// A zero direction vector does not count as navigating.
	if store.Snapshot().IsNavigating {
		t.Error("expected isNavigating false with cancelled keys")
	}
}

func TestVerticalMovementUsesWorldUp(t *testing.T) {
	c, _ := newTestController()
	c.SetPosition(math.Vec3{Y: 1.7})

	// Pitch steeply; Up must still move along world up, not camera up.
	c.AddPointerDelta(0, -700)
	c.SetKey(KeyUp, true)
	c.Update(1.0)

	got := c.Position()
	if !approx(got.X, 0) || !approx(got.Z, 0) {
		t.Errorf("expected purely vertical motion, got %v", got)
	}
	if !approx(got.Y, 6.7) {
		t.Errorf("expected Y 6.7, got %f", got.Y)
	}
}

func TestPitchClamped(t *testing.T) {
	c, store := newTestController()

	c.AddPointerDelta(0, -1e6)
	c.Update(0.016)
	if _, pitch := c.Rotation(); !approx(pitch, gomath.Pi/2) {
		t.Errorf("expected pitch clamped to +pi/2, got %f", pitch)
	}

	c.AddPointerDelta(0, 1e6)
	c.Update(0.016)
	if _, pitch := c.Rotation(); !approx(pitch, -gomath.Pi/2) {
		t.Errorf("expected pitch clamped to -pi/2, got %f", pitch)
	}

	rot := store.Snapshot().CameraRotation
	if !approx(rot.Pitch, -gomath.Pi/2) {
		t.Errorf("expected clamped pitch published, got %f", rot.Pitch)
	}
}

func TestRotationPublishedUnconditionally(t *testing.T) {
	c, store := newTestController()

	c.AddPointerDelta(500, 0)
	c.Update(0.016)

	yaw, _ := c.Rotation()
	if approx(yaw, 0) {
		t.Fatal("expected yaw to change")
	}
	if got := store.Snapshot().CameraRotation.Yaw; !approx(got, yaw) {
		t.Errorf("expected yaw %f published, got %f", yaw, got)
	}
}

func TestHeightClamped(t *testing.T) {
	c, _ := newTestController()

	c.SetPosition(math.Vec3{X: 1, Y: 0.1, Z: 1})
	c.Update(0.016)
	if got := c.Position().Y; !approx(got, 0.5) {
		t.Errorf("expected Y clamped to 0.5, got %f", got)
	}

	c.SetPosition(math.Vec3{X: 1, Y: 80, Z: 1})
	c.Update(0.016)
	if got := c.Position().Y; !approx(got, 50) {
		t.Errorf("expected Y clamped to 50, got %f", got)
	}
}

func TestRadiusClampPreservesDirection(t *testing.T) {
	c, _ := newTestController()

	// Distance exactly 150 from origin, height within bounds.
	start := math.Vec3{X: 100, Y: 50, Z: 100}
	c.SetPosition(start)
	c.Update(0.016) // zero input

	got := c.Position()
	if l := got.Length(); !approx(l, 100) {
		t.Errorf("expected distance clamped to exactly 100, got %f", l)
	}

	wantDir := start.Normalize()
	gotDir := got.Normalize()
	if !approx(wantDir.X, gotDir.X) || !approx(wantDir.Y, gotDir.Y) || !approx(wantDir.Z, gotDir.Z) {
		t.Errorf("expected direction preserved, want %v got %v", wantDir, gotDir)
	}
}

func TestPositionPublishedOnlyBeyondEpsilon(t *testing.T) {
	c, store := newTestController()
	start := c.Position()

	// 0.05 units per frame stays under the publish epsilon at first.
	c.SetKey(KeyForward, true)
	c.Update(0.01)
	if store.Snapshot().UserPosition != start {
		t.Error("expected sub-epsilon movement not published")
	}

	c.Update(0.01)
	c.Update(0.01)
	if store.Snapshot().UserPosition == start {
		t.Error("expected accumulated movement published once beyond epsilon")
	}
}

func TestTouchSensitivityDiffersFromMouse(t *testing.T) {
	cfg := DefaultConfig()

	cm, _ := newTestController()
	cm.AddPointerDelta(10, 0)
	cm.Update(0.016)
	mouseYaw, _ := cm.Rotation()

	ct, _ := newTestController()
	ct.AddTouchDelta(10, 0)
	ct.Update(0.016)
	touchYaw, _ := ct.Rotation()

	if !approx(mouseYaw, 10*cfg.MouseSensitivity) {
		t.Errorf("expected mouse yaw %f, got %f", 10*cfg.MouseSensitivity, mouseYaw)
	}
	if !approx(touchYaw, 10*cfg.TouchSensitivity) {
		t.Errorf("expected touch yaw %f, got %f", 10*cfg.TouchSensitivity, touchYaw)
	}
	if approx(mouseYaw, touchYaw) {
		t.Error("expected touch and mouse sensitivities to differ")
	}
}

func TestReleaseAll(t *testing.T) {
	c, store := newTestController()

	c.SetKey(KeyForward, true)
	c.SetKey(KeyUp, true)
	c.ReleaseAll()
	c.Update(1.0)

	if store.Snapshot().IsNavigating {
		t.Error("expected no navigation after ReleaseAll")
	}
}
