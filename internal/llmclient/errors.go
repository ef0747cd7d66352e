// internal/llmclient/errors.go
package llmclient

import "fmt"

// EndpointError wraps any failure of the chat-completions endpoint itself:
// connection refusals, timeouts, non-2xx responses, or a response with no
// choices. Unlike a bad tool call, the loop cannot repair these by telling
// the model about them, so they are fatal to the run.
type EndpointError struct {
	Err error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("chat completions endpoint: %v", e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}
