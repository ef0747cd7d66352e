// internal/schema/actions.go
package schema

// ActionKind identifies one entry of the closed action vocabulary the model
// may request. Anything outside this enumeration is a protocol violation.
type ActionKind string

const (
	ActionKey           ActionKind = "key"
	ActionTypeText      ActionKind = "type"
	ActionMouseMove     ActionKind = "mouse_move"
	ActionLeftClick     ActionKind = "left_click"
	ActionLeftClickDrag ActionKind = "left_click_drag"
	ActionRightClick    ActionKind = "right_click"
	ActionMiddleClick   ActionKind = "middle_click"
	ActionDoubleClick   ActionKind = "double_click"
	ActionTripleClick   ActionKind = "triple_click"
	ActionScroll        ActionKind = "scroll"
	ActionHScroll       ActionKind = "hscroll"
	ActionWait          ActionKind = "wait"
	ActionTerminate     ActionKind = "terminate"
	ActionAnswer        ActionKind = "answer"
)

// Kinds lists every legal action in declaration order. The tool parameter
// schema and the executor's dispatch both derive from this single list.
func Kinds() []ActionKind {
	return []ActionKind{
		ActionKey, ActionTypeText, ActionMouseMove,
		ActionLeftClick, ActionLeftClickDrag, ActionRightClick,
		ActionMiddleClick, ActionDoubleClick, ActionTripleClick,
		ActionScroll, ActionHScroll,
		ActionWait, ActionTerminate, ActionAnswer,
	}
}

// Known reports whether k names an action inside the closed enumeration.
func (k ActionKind) Known() bool {
	for _, v := range Kinds() {
		if k == v {
			return true
		}
	}
	return false
}

// Bookkeeping reports whether the action is pure protocol bookkeeping:
// it never touches the display and never carries a screenshot.
func (k ActionKind) Bookkeeping() bool {
	return k == ActionAnswer || k == ActionTerminate
}

// TerminateStatus is the verdict carried by a terminate action.
type TerminateStatus string

const (
	TerminateSuccess TerminateStatus = "success"
	TerminateFailure TerminateStatus = "failure"
)

// ActionRequest is one tool call decoded from the model's output. Fields
// other than Action are action-specific; the executor validates them per
// action because the model's output is untrusted. Pointer fields distinguish
// "absent" from a legitimate zero value (e.g. an empty type text).
type ActionRequest struct {
	Action     ActionKind `json:"action"`
	Keys       []string   `json:"keys,omitempty"`
	Text       *string    `json:"text,omitempty"`
	Coordinate []float64  `json:"coordinate,omitempty"`
	Pixels     *float64   `json:"pixels,omitempty"`
	Time       *float64   `json:"time,omitempty"`
	Status     string     `json:"status,omitempty"`
}

// ResultStatus classifies an ActionResult for the conversation loop.
type ResultStatus string

const (
	StatusOK        ResultStatus = "ok"
	StatusAnswer    ResultStatus = "answer"
	StatusTerminate ResultStatus = "terminate"
	// StatusError is emitted by the loop itself when a tool call is rejected
	// (malformed arguments, failed validation) so the model can self-correct
	// on its next turn. The executor never produces it for a valid request.
	StatusError ResultStatus = "error"
)

// Point is a cursor position in screen pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Geometry is the captured monitor's resolution.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Screenshot is the visual ground truth attached to every result of an
// action with a physical effect: the capture is taken after the action
// completed, never before.
type Screenshot struct {
	// Image is the PNG capture as a base64 data URI, inline-transmittable.
	Image string `json:"image"`
	// Path is where the same PNG was persisted on disk.
	Path    string   `json:"path"`
	Cursor  Point    `json:"cursor"`
	Display Geometry `json:"display"`
}

// ActionResult is produced exactly once per ActionRequest and serialized
// verbatim into the tool-role reply message.
type ActionResult struct {
	Status     ResultStatus    `json:"status"`
	Detail     string          `json:"detail,omitempty"`
	Text       *string         `json:"text,omitempty"`
	Result     TerminateStatus `json:"result,omitempty"`
	Screenshot *Screenshot     `json:"screenshot,omitempty"`
}
