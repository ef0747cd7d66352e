// internal/display/robotgo.go
package display

import (
	"image"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"
)

// RobotgoInput injects input through robotgo against the live desktop.
// It is stateless; all state lives in the OS input layer.
type RobotgoInput struct{}

var _ InputBackend = (*RobotgoInput)(nil)

func (RobotgoInput) Move(x, y int, duration time.Duration) {
	if duration > 0 {
		robotgo.MoveSmooth(x, y)
		return
	}
	robotgo.Move(x, y)
}

func (RobotgoInput) Click(b Button, double bool) {
	robotgo.Click(string(b), double)
}

func (RobotgoInput) ButtonToggle(b Button, down bool) error {
	if down {
		return robotgo.Toggle(string(b))
	}
	return robotgo.Toggle(string(b), "up")
}

func (RobotgoInput) Scroll(dx, dy int) {
	robotgo.Scroll(dx, dy)
}

func (RobotgoInput) KeyToggle(key string, down bool) error {
	if down {
		return robotgo.KeyToggle(key, "down")
	}
	return robotgo.KeyToggle(key, "up")
}

func (RobotgoInput) TypeText(text string, interval time.Duration) {
	for _, r := range text {
		robotgo.TypeStr(string(r))
		if interval > 0 {
			time.Sleep(interval)
		}
	}
}

func (RobotgoInput) CursorPosition() (int, int) {
	return robotgo.Location()
}

// KbinaniCapture grabs monitor framebuffers via kbinani/screenshot.
type KbinaniCapture struct{}

var _ CaptureBackend = (*KbinaniCapture)(nil)

func (KbinaniCapture) NumDisplays() int {
	return screenshot.NumActiveDisplays()
}

func (KbinaniCapture) DisplayBounds(index int) image.Rectangle {
	return screenshot.GetDisplayBounds(index)
}

func (KbinaniCapture) Capture(bounds image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(bounds)
}
