// internal/executor/executor.go
package executor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot-cli/internal/display"
	"github.com/xkilldash9x/deskpilot-cli/internal/schema"
)

// maxTypeDetailLen caps how much of the typed text is echoed in the
// human-readable detail line.
const maxTypeDetailLen = 50

// Screenshotter produces the post-action visual ground truth; satisfied by
// *screenshot.Service.
type Screenshotter interface {
	Take() (*schema.Screenshot, error)
}

// Options tunes the timing of injected input.
type Options struct {
	// MouseMoveDuration smooths mouse_move; zero means instantaneous.
	MouseMoveDuration time.Duration
	// DragDuration is the press-to-release travel time of left_click_drag.
	DragDuration time.Duration
	// TypeInterval is the inter-character cadence of the type action.
	TypeInterval time.Duration
}

// Executor turns one validated ActionRequest into exactly one ActionResult,
// with side effects on the real display and input devices. The backends are
// constructed once at startup and injected; the executor holds no hidden
// process-wide state.
type Executor struct {
	input  display.InputBackend
	shots  Screenshotter
	opts   Options
	logger *zap.Logger
}

// New creates an Executor bound to the given input and capture services.
func New(input display.InputBackend, shots Screenshotter, opts Options, logger *zap.Logger) *Executor {
	return &Executor{
		input:  input,
		shots:  shots,
		opts:   opts,
		logger: logger.Named("executor"),
	}
}

// Execute dispatches a single action. Bookkeeping actions (answer,
// terminate) return immediately; every other action performs its input
// effect first and then unconditionally captures a fresh screenshot, so the
// model always sees ground truth from after the physical effect.
func (e *Executor) Execute(ctx context.Context, req schema.ActionRequest) (*schema.ActionResult, error) {
	e.logger.Debug("Dispatching action", zap.String("action", string(req.Action)))

	result, err := e.perform(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Action.Bookkeeping() {
		return result, nil
	}

	shot, err := e.shots.Take()
	if err != nil {
		return nil, fmt.Errorf("post-action screenshot: %w", err)
	}
	result.Screenshot = shot
	return result, nil
}

// perform is the dispatch table over the closed action vocabulary. A tagged
// switch keeps the enumeration and the handlers in one place; unknown names
// fall through to UnsupportedActionError.
func (e *Executor) perform(ctx context.Context, req schema.ActionRequest) (*schema.ActionResult, error) {
	switch req.Action {
	case schema.ActionMouseMove:
		return e.mouseMove(req)
	case schema.ActionLeftClick:
		return e.click(req, display.ButtonLeft, "Left")
	case schema.ActionRightClick:
		return e.click(req, display.ButtonRight, "Right")
	case schema.ActionMiddleClick:
		return e.click(req, display.ButtonMiddle, "Middle")
	case schema.ActionDoubleClick:
		return e.multiClick(req, 2, "Double")
	case schema.ActionTripleClick:
		return e.multiClick(req, 3, "Triple")
	case schema.ActionLeftClickDrag:
		return e.leftClickDrag(req)
	case schema.ActionScroll:
		return e.scroll(req, false)
	case schema.ActionHScroll:
		return e.scroll(req, true)
	case schema.ActionTypeText:
		return e.typeText(req)
	case schema.ActionKey:
		return e.keyChord(req)
	case schema.ActionWait:
		return e.wait(ctx, req)
	case schema.ActionAnswer:
		return e.answer(req)
	case schema.ActionTerminate:
		return e.terminate(req)
	default:
		return nil, &UnsupportedActionError{Action: string(req.Action)}
	}
}

// requireXY validates the mandatory 2-element numeric coordinate and coerces
// it to integer pixels.
func requireXY(req schema.ActionRequest) (int, int, error) {
	if len(req.Coordinate) != 2 {
		return 0, 0, &ValidationError{Action: req.Action, Reason: "coordinate=[x, y] is required for this action"}
	}
	return int(req.Coordinate[0]), int(req.Coordinate[1]), nil
}

// mouseMove treats an absent coordinate as "stay in place": the action then
// applies to the current cursor position like the click-in-place variants.
func (e *Executor) mouseMove(req schema.ActionRequest) (*schema.ActionResult, error) {
	if len(req.Coordinate) == 0 {
		x, y := e.input.CursorPosition()
		return ok(fmt.Sprintf("Moved to (%d, %d).", x, y)), nil
	}
	x, y, err := requireXY(req)
	if err != nil {
		return nil, err
	}
	e.input.Move(x, y, e.opts.MouseMoveDuration)
	return ok(fmt.Sprintf("Moved to (%d, %d).", x, y)), nil
}

// click handles the single-click actions, where the coordinate is optional:
// when absent the click lands at the current cursor position.
func (e *Executor) click(req schema.ActionRequest, b display.Button, label string) (*schema.ActionResult, error) {
	if len(req.Coordinate) == 0 {
		e.input.Click(b, false)
		return ok(fmt.Sprintf("%s click at current cursor.", label)), nil
	}
	x, y, err := requireXY(req)
	if err != nil {
		return nil, err
	}
	e.input.Move(x, y, 0)
	e.input.Click(b, false)
	return ok(fmt.Sprintf("%s click at (%d, %d).", label, x, y)), nil
}

// multiClick handles double_click and triple_click, where the coordinate is
// required.
func (e *Executor) multiClick(req schema.ActionRequest, count int, label string) (*schema.ActionResult, error) {
	x, y, err := requireXY(req)
	if err != nil {
		return nil, err
	}
	e.input.Move(x, y, 0)
	if count == 2 {
		e.input.Click(display.ButtonLeft, true)
	} else {
		for i := 0; i < count; i++ {
			e.input.Click(display.ButtonLeft, false)
		}
	}
	return ok(fmt.Sprintf("%s click at (%d, %d).", label, x, y)), nil
}

// leftClickDrag engages the primary button at the current position, travels
// to the target over the configured drag duration, and releases. No
// intermediate screenshot is taken.
func (e *Executor) leftClickDrag(req schema.ActionRequest) (*schema.ActionResult, error) {
	x, y, err := requireXY(req)
	if err != nil {
		return nil, err
	}
	if err := e.input.ButtonToggle(display.ButtonLeft, true); err != nil {
		return nil, fmt.Errorf("engage primary button: %w", err)
	}
	e.input.Move(x, y, e.opts.DragDuration)
	if err := e.input.ButtonToggle(display.ButtonLeft, false); err != nil {
		return nil, fmt.Errorf("release primary button: %w", err)
	}
	return ok(fmt.Sprintf("Drag to (%d, %d).", x, y)), nil
}

func (e *Executor) scroll(req schema.ActionRequest, horizontal bool) (*schema.ActionResult, error) {
	pixels := 0
	if req.Pixels != nil {
		pixels = int(*req.Pixels)
	}
	if horizontal {
		e.input.Scroll(pixels, 0)
		return ok(fmt.Sprintf("Scroll %d horizontally.", pixels)), nil
	}
	e.input.Scroll(0, pixels)
	return ok(fmt.Sprintf("Scroll %d vertically.", pixels)), nil
}

func (e *Executor) typeText(req schema.ActionRequest) (*schema.ActionResult, error) {
	if req.Text == nil {
		return nil, &ValidationError{Action: req.Action, Reason: "text is required for action=type"}
	}
	text := *req.Text
	e.input.TypeText(text, e.opts.TypeInterval)

	echo := text
	if len(echo) > maxTypeDetailLen {
		echo = echo[:maxTypeDetailLen]
	}
	return ok(fmt.Sprintf("Typed %q.", echo)), nil
}

// keyChord presses every listed key down in request order, then releases in
// reverse order, so modifier combinations register with the OS input layer.
func (e *Executor) keyChord(req schema.ActionRequest) (*schema.ActionResult, error) {
	if len(req.Keys) == 0 {
		return nil, &ValidationError{Action: req.Action, Reason: "keys is required for action=key"}
	}
	for _, key := range req.Keys {
		if err := e.input.KeyToggle(key, true); err != nil {
			return nil, fmt.Errorf("press key %q: %w", key, err)
		}
	}
	for i := len(req.Keys) - 1; i >= 0; i-- {
		if err := e.input.KeyToggle(req.Keys[i], false); err != nil {
			return nil, fmt.Errorf("release key %q: %w", req.Keys[i], err)
		}
	}
	return ok(fmt.Sprintf("Pressed keys %v.", req.Keys)), nil
}

// wait suspends the calling flow; it is the only action that introduces a
// deliberate delay. Context cancellation cuts the sleep short.
func (e *Executor) wait(ctx context.Context, req schema.ActionRequest) (*schema.ActionResult, error) {
	if req.Time == nil {
		return nil, &ValidationError{Action: req.Action, Reason: "time is required for action=wait"}
	}
	d := time.Duration(*req.Time * float64(time.Second))
	select {
	case <-time.After(d):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return ok(fmt.Sprintf("Waited %g seconds.", *req.Time)), nil
}

// answer records the model's final natural-language answer. It never touches
// the display and does not by itself end the run.
func (e *Executor) answer(req schema.ActionRequest) (*schema.ActionResult, error) {
	text := ""
	if req.Text != nil {
		text = *req.Text
	}
	return &schema.ActionResult{Status: schema.StatusAnswer, Text: &text}, nil
}

// terminate signals the loop to end the run with a pass/fail verdict.
func (e *Executor) terminate(req schema.ActionRequest) (*schema.ActionResult, error) {
	status := schema.TerminateStatus(req.Status)
	if status != schema.TerminateSuccess && status != schema.TerminateFailure {
		return nil, &ValidationError{Action: req.Action, Reason: "status must be success or failure for action=terminate"}
	}
	return &schema.ActionResult{Status: schema.StatusTerminate, Result: status}, nil
}

func ok(detail string) *schema.ActionResult {
	return &schema.ActionResult{Status: schema.StatusOK, Detail: detail}
}
