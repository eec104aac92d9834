// Package nav converts raw input device state into a smooth first-person
// camera transform with bounded motion, publishing the result to the scene
// store.
package nav

import (
	gomath "math"

	"github.com/Faultbox/atrium/internal/scene"
	"github.com/Faultbox/atrium/pkg/math"
)

// Key identifies one movement direction. Keys are independent booleans, not
// mutually exclusive; opposing keys cancel out.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown

	keyCount
)

// Motion bounds.
const (
	minHeight      = 0.5
	maxHeight      = 50.0
	maxRadius      = 100.0
	publishEpsilon = 0.1
	pitchLimit     = gomath.Pi / 2
)

var worldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// Config holds navigation tuning.
type Config struct {
	MovementSpeed    float32 // units per second
	MouseSensitivity float32 // radians per mouse count
	TouchSensitivity float32 // radians per normalized touch unit
}

// DefaultConfig returns the standard navigation tuning.
func DefaultConfig() Config {
	return Config{
		MovementSpeed:    5.0,
		MouseSensitivity: 0.002,
		TouchSensitivity: 2.5,
	}
}

// Controller maintains the camera pose from held keys and pointer look. It
// owns only per-frame scratch state; the published pose lives in the store.
type Controller struct {
	store *scene.Store
	cfg   Config

	held     [keyCount]bool
	lookYaw  float32 // accumulated yaw offset, applied next Update
	lookPit  float32 // accumulated pitch offset
	captured bool

	pos   math.Vec3
	yaw   float32
	pitch float32

	lastPublished math.Vec3
}

// New creates a controller seeded with the store's current camera pose.
func New(store *scene.Store, cfg Config) *Controller {
	st := store.Snapshot()
	return &Controller{
		store:         store,
		cfg:           cfg,
		pos:           st.UserPosition,
		yaw:           st.CameraRotation.Yaw,
		pitch:         st.CameraRotation.Pitch,
		lastPublished: st.UserPosition,
	}
}

// SetKey records a key press or release.
func (c *Controller) SetKey(k Key, down bool) {
	if k < 0 || k >= keyCount {
		return
	}
	c.held[k] = down
}

// ReleaseAll clears every held key, for focus-loss events.
func (c *Controller) ReleaseAll() {
	c.held = [keyCount]bool{}
}

// AddPointerDelta accumulates relative mouse motion into the look offsets.
func (c *Controller) AddPointerDelta(dx, dy float32) {
	c.lookYaw += dx * c.cfg.MouseSensitivity
	c.lookPit -= dy * c.cfg.MouseSensitivity
}

// AddTouchDelta accumulates a single-finger drag, normalized to the render
// surface, at touch sensitivity.
func (c *Controller) AddTouchDelta(dx, dy float32) {
	c.lookYaw += dx * c.cfg.TouchSensitivity
	c.lookPit -= dy * c.cfg.TouchSensitivity
}

// SetPointerCaptured records whether relative pointer look is engaged.
func (c *Controller) SetPointerCaptured(captured bool) {
	c.captured = captured
}

// PointerCaptured reports the capture flag.
func (c *Controller) PointerCaptured() bool {
	return c.captured
}

// Position returns the current camera position.
func (c *Controller) Position() math.Vec3 {
	return c.pos
}

// SetPosition moves the camera directly, for zone changes and resets.
func (c *Controller) SetPosition(pos math.Vec3) {
	c.pos = pos
}

// Rotation returns the current yaw and pitch.
func (c *Controller) Rotation() (yaw, pitch float32) {
	return c.yaw, c.pitch
}

// Update advances the camera one frame. dt is the frame time in seconds.
func (c *Controller) Update(dt float32) {
	// Look first: drain the accumulator, clamp pitch shy of straight up or
	// down, publish rotation unconditionally.
	c.yaw += c.lookYaw
	c.pitch += c.lookPit
	c.lookYaw, c.lookPit = 0, 0
	if c.pitch > pitchLimit {
		c.pitch = pitchLimit
	}
	if c.pitch < -pitchLimit {
		c.pitch = -pitchLimit
	}
	c.store.SetCameraRotation(scene.Rotation{Pitch: c.pitch, Yaw: c.yaw})

	dir := c.rawDirection()
	moving := dir != (math.Vec3{})
	if moving {
		dir = dir.Normalize()

		fwd := c.Forward()
		right := fwd.Cross(worldUp).Normalize()
		flat := worldUp.Cross(right).Normalize()

		// Horizontal motion is camera-relative; vertical is world up.
		move := right.Scale(dir.X).Add(flat.Scale(dir.Z)).Add(worldUp.Scale(dir.Y))
		c.pos = c.pos.Add(move.Scale(c.cfg.MovementSpeed * dt))
	}

	// Clamp height, then clip to the bounding sphere surface.
	if c.pos.Y < minHeight {
		c.pos.Y = minHeight
	}
	if c.pos.Y > maxHeight {
		c.pos.Y = maxHeight
	}
	c.pos = c.pos.ClampLength(maxRadius)

	c.store.SetNavigating(moving || c.captured)

	// Rate-limit position publishes to meaningful displacement.
	if c.pos.Distance(c.lastPublished) > publishEpsilon {
		c.store.SetUserPosition(c.pos)
		c.lastPublished = c.pos
	}
}

// Forward returns the camera forward vector from yaw and pitch. Yaw zero
// faces -Z.
func (c *Controller) Forward() math.Vec3 {
	cosPitch := float32(gomath.Cos(float64(c.pitch)))
	return math.Vec3{
		X: float32(gomath.Sin(float64(c.yaw))) * cosPitch,
		Y: float32(gomath.Sin(float64(c.pitch))),
		Z: -float32(gomath.Cos(float64(c.yaw))) * cosPitch,
	}
}

// rawDirection sums held-key contributions per axis: X right, Y up, Z
// forward. May be zero.
func (c *Controller) rawDirection() math.Vec3 {
	var dir math.Vec3
	if c.held[KeyForward] {
		dir.Z++
	}
	if c.held[KeyBackward] {
		dir.Z--
	}
	if c.held[KeyRight] {
		dir.X++
	}
	if c.held[KeyLeft] {
		dir.X--
	}
	if c.held[KeyUp] {
		dir.Y++
	}
	if c.held[KeyDown] {
		dir.Y--
	}
	return dir
}
