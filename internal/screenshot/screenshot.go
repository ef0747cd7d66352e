// internal/screenshot/screenshot.go
package screenshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot-cli/internal/display"
	"github.com/xkilldash9x/deskpilot-cli/internal/schema"
)

const (
	dataURIPrefix = "data:image/png;base64,"
	fileTimestamp = "20060102-150405"
	filePerm      = 0o644
)

// CursorSource reports the current cursor position; satisfied by any
// display.InputBackend.
type CursorSource interface {
	CursorPosition() (x, y int)
}

// Service captures the configured monitor's framebuffer after an action
// completes, persists it to a timestamped PNG and encodes it for inline
// transmission. Capture handles are acquired per call and released before
// returning; nothing is held across rounds.
type Service struct {
	dir     string
	monitor int
	capture display.CaptureBackend
	cursor  CursorSource
	logger  *zap.Logger

	// now is injectable so tests get deterministic file names.
	now func() time.Time
}

// New creates the service and the screenshot directory if absent.
// monitor uses the 1-based convention from display.MonitorBounds.
func New(dir string, monitor int, capture display.CaptureBackend, cursor CursorSource, logger *zap.Logger) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot directory %q: %w", dir, err)
	}
	return &Service{
		dir:     dir,
		monitor: monitor,
		capture: capture,
		cursor:  cursor,
		logger:  logger.Named("screenshot"),
		now:     time.Now,
	}, nil
}

// Take grabs the monitor, writes <dir>/<timestamp>.png and returns the
// encoded reference. Second-resolution names are monotonically
// distinguishable within a run because actions are never sub-second dense.
func (s *Service) Take() (*schema.Screenshot, error) {
	bounds, err := display.MonitorBounds(s.capture, s.monitor)
	if err != nil {
		return nil, err
	}

	img, err := s.capture.Capture(bounds)
	if err != nil {
		return nil, fmt.Errorf("capture monitor %d: %w", s.monitor, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode capture: %w", err)
	}

	path := filepath.Join(s.dir, s.now().Format(fileTimestamp)+".png")
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return nil, fmt.Errorf("persist capture to %q: %w", path, err)
	}

	x, y := s.cursor.CursorPosition()
	s.logger.Debug("Captured screenshot",
		zap.String("path", path),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.Int("cursor_x", x),
		zap.Int("cursor_y", y))

	return &schema.Screenshot{
		Image:   dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Path:    path,
		Cursor:  schema.Point{X: x, Y: y},
		Display: schema.Geometry{Width: bounds.Dx(), Height: bounds.Dy()},
	}, nil
}
