// internal/agent/errors.go
package agent

import "fmt"

// MalformedArgumentsError reports a tool call whose arguments string is not
// valid JSON for an ActionRequest. The call is answered with a failed tool
// result instead of crashing the run; the model sees the parse failure and
// can retry.
type MalformedArgumentsError struct {
	CallID string
	Err    error
}

func (e *MalformedArgumentsError) Error() string {
	return fmt.Sprintf("malformed tool arguments (call %s): %v", e.CallID, e.Err)
}

func (e *MalformedArgumentsError) Unwrap() error {
	return e.Err
}
