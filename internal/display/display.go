// internal/display/display.go
package display

import (
	"fmt"
	"image"
	"os"
	"runtime"
	"time"
)

// Button identifies a mouse button using the injection backend's naming.
type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "center"
)

// InputBackend abstracts the OS-level input injection primitives the
// executor drives. Implementations mutate shared cursor/keyboard state, so
// callers must serialize access (the conversation loop already does).
type InputBackend interface {
	// Move places the cursor at (x, y). A positive duration requests a
	// smoothed, non-instantaneous movement.
	Move(x, y int, duration time.Duration)
	// Click presses and releases the button at the current cursor position.
	Click(b Button, double bool)
	// ButtonToggle engages (down=true) or releases the button without moving.
	ButtonToggle(b Button, down bool) error
	// Scroll scrolls by dx horizontally and dy vertically; the sign
	// convention is whatever the underlying primitive defines.
	Scroll(dx, dy int)
	// KeyToggle presses (down=true) or releases a named key.
	KeyToggle(key string, down bool) error
	// TypeText emits the text one character at a time, pausing interval
	// between characters to emulate keystroke timing.
	TypeText(text string, interval time.Duration)
	// CursorPosition reports the current cursor location.
	CursorPosition() (x, y int)
}

// CaptureBackend abstracts per-monitor framebuffer grabs. Display indexes
// here are zero-based, matching the capture library; the 1-based
// configuration convention is translated by MonitorBounds.
type CaptureBackend interface {
	NumDisplays() int
	DisplayBounds(index int) image.Rectangle
	Capture(bounds image.Rectangle) (*image.RGBA, error)
}

// DisplayUnavailableError reports that no display surface can be attached.
// It is a startup-fatal condition: nothing the agent does can succeed
// without one, so it must not be retried per action.
type DisplayUnavailableError struct {
	Reason string
}

func (e *DisplayUnavailableError) Error() string {
	return fmt.Sprintf("display unavailable: %s", e.Reason)
}

// Probe verifies that a graphical session is reachable before the run
// starts. On Linux it additionally checks for an X11/Wayland session and
// names the Xvfb workaround, since a headless host is the common failure.
func Probe(c CaptureBackend) error {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return &DisplayUnavailableError{
			Reason: "no DISPLAY or WAYLAND_DISPLAY in environment; input injection needs a " +
				"graphical session (e.g. run under Xvfb: xvfb-run -s \"-screen 0 1920x1080x24\" deskpilot run ...)",
		}
	}
	if c.NumDisplays() < 1 {
		return &DisplayUnavailableError{Reason: "capture backend reports zero active displays"}
	}
	return nil
}

// MonitorBounds resolves a 1-based monitor index to capture bounds.
// Index 0 denotes all displays combined (the union of every monitor's
// bounds); it is accepted but never the configured default.
func MonitorBounds(c CaptureBackend, index int) (image.Rectangle, error) {
	n := c.NumDisplays()
	if n < 1 {
		return image.Rectangle{}, &DisplayUnavailableError{Reason: "capture backend reports zero active displays"}
	}
	if index < 0 || index > n {
		return image.Rectangle{}, fmt.Errorf("monitor index %d out of range: host has %d display(s)", index, n)
	}
	if index == 0 {
		bounds := c.DisplayBounds(0)
		for i := 1; i < n; i++ {
			bounds = bounds.Union(c.DisplayBounds(i))
		}
		return bounds, nil
	}
	return c.DisplayBounds(index - 1), nil
}
