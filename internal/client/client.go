// Package client implements the runtime shell: window, input pumping, and the
// frame loop that drives navigation and performance sampling in order.
package client

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/atrium/internal/config"
	"github.com/Faultbox/atrium/internal/engine/frame"
	"github.com/Faultbox/atrium/internal/engine/input"
	"github.com/Faultbox/atrium/internal/engine/nav"
	"github.com/Faultbox/atrium/internal/engine/window"
	"github.com/Faultbox/atrium/internal/logger"
	"github.com/Faultbox/atrium/internal/scene"
	"github.com/Faultbox/atrium/internal/telemetry"
)

// Deps are the core collaborators the shell drives each frame.
type Deps struct {
	Store   *scene.Store
	Tracker *telemetry.Tracker
	Nav     *nav.Controller
	Loop    *frame.Loop
}

// Client owns the window and runs the main loop.
type Client struct {
	cfg     *config.Config
	deps    Deps
	win     *window.Window
	in      *input.Input
	running bool
}

// New creates the window and input handler.
func New(cfg *config.Config, deps Deps) (*Client, error) {
	c := &Client{
		cfg:  cfg,
		deps: deps,
	}

	var err error
	c.win, err = window.New(window.Config{
		Title:      "Atrium",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	c.in = input.New()

	return c, nil
}

// Run starts the main loop. Each frame: pump input, advance the camera, then
// tick the frame loop so the governor samples an end-of-frame snapshot.
func (c *Client) Run() error {
	c.running = true

	// The scene itself is static content; loading completes immediately.
	c.deps.Store.SetLoadingProgress(100)
	c.deps.Store.SetLoaded(true)

	lastTime := time.Now()

	logger.Info("starting main loop")

	for c.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if c.in.Update() {
			c.running = false
			break
		}
		c.handleEvents()

		// Camera before governor: the store snapshot at window close must
		// be an end-of-frame state, never a partial one.
		c.deps.Nav.Update(float32(dt.Seconds()))
		c.deps.Loop.Tick(dt)

		c.render()
		c.win.SwapBuffers()
	}

	return nil
}

// handleEvents routes pumped events to the navigation controller and
// trackers.
func (c *Client) handleEvents() {
	for _, e := range c.in.Events() {
		switch e.Type {
		case input.EventWindowResize:
			gl.Viewport(0, 0, int32(e.Width), int32(e.Height))

		case input.EventFocusLost:
			c.deps.Nav.ReleaseAll()
			c.releasePointer()

		case input.EventKeyDown:
			if e.Key == sdl.SCANCODE_ESCAPE {
				c.running = false
				continue
			}
			if k, ok := navKey(e.Key); ok {
				c.deps.Nav.SetKey(k, true)
			}

		case input.EventKeyUp:
			if k, ok := navKey(e.Key); ok {
				c.deps.Nav.SetKey(k, false)
			}

		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_RIGHT {
				c.deps.Nav.SetPointerCaptured(true)
				input.SetRelativeMouseMode(true)
			}

		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_RIGHT {
				c.releasePointer()
			}

		case input.EventMouseMove:
			if c.deps.Nav.PointerCaptured() {
				c.deps.Nav.AddPointerDelta(float32(e.RelX), float32(e.RelY))
			}

		case input.EventTouchMove:
			c.deps.Nav.AddTouchDelta(e.TouchDX, e.TouchDY)

		case input.EventDeviceReset:
			logger.Warn("render device reset")
			c.deps.Tracker.HandleContextLost(false)
			c.deps.Tracker.HandleContextRestored()
		}
	}
}

// releasePointer drops pointer capture and relative mouse mode.
func (c *Client) releasePointer() {
	c.deps.Nav.SetPointerCaptured(false)
	input.SetRelativeMouseMode(false)
}

// render clears the frame. Scene content is drawn by the rendering layer;
// the shell only keeps the surface alive.
func (c *Client) render() {
	gl.ClearColor(0.06, 0.07, 0.09, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Close cleans up the window.
func (c *Client) Close() {
	logger.Info("closing client")
	if c.win != nil {
		c.win.Close()
	}
}

// navKey maps a scancode to a movement key.
func navKey(code sdl.Scancode) (nav.Key, bool) {
	switch code {
	case sdl.SCANCODE_W, sdl.SCANCODE_UP:
		return nav.KeyForward, true
	case sdl.SCANCODE_S, sdl.SCANCODE_DOWN:
		return nav.KeyBackward, true
	case sdl.SCANCODE_A, sdl.SCANCODE_LEFT:
		return nav.KeyLeft, true
	case sdl.SCANCODE_D, sdl.SCANCODE_RIGHT:
		return nav.KeyRight, true
	case sdl.SCANCODE_SPACE, sdl.SCANCODE_E:
		return nav.KeyUp, true
	case sdl.SCANCODE_LSHIFT, sdl.SCANCODE_Q:
		return nav.KeyDown, true
	default:
		return 0, false
	}
}
