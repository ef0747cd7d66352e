// internal/executor/errors.go
package executor

import (
	"fmt"

	"github.com/xkilldash9x/deskpilot-cli/internal/schema"
)

// ValidationError reports a required action field that is missing or
// malformed. The tool declaration already told the model the contract, but
// the model's output is untrusted input, so every request is re-checked
// here. The loop surfaces it back to the model as a failed tool result.
type ValidationError struct {
	Action schema.ActionKind
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s action: %s", e.Action, e.Reason)
}

// UnsupportedActionError reports an action name outside the closed
// enumeration: a protocol violation by the model.
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action: %s", e.Action)
}
