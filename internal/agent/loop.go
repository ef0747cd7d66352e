// internal/agent/loop.go
package agent

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/openai/openai-go/v2"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot-cli/internal/llmclient"
	"github.com/xkilldash9x/deskpilot-cli/internal/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// State tracks where the conversation loop currently is. The loop is
// single-goroutine; the state exists for logging and post-run inspection.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingModel   State = "awaiting_model"
	StateDispatchingTool State = "dispatching_tools"
	StateFinished        State = "finished"
)

// FinishReason records which exit path ended the run.
type FinishReason string

const (
	// FinishAssistantText: the model replied with plain text and no tool
	// calls, which closes the conversation.
	FinishAssistantText FinishReason = "assistant_text"
	// FinishTerminate: the model called action=terminate.
	FinishTerminate FinishReason = "terminate"
	// FinishTurnLimit: the turn budget ran out before the model finished.
	FinishTurnLimit FinishReason = "turn_limit"
)

// RunOutcome is the final verdict of one agent run.
type RunOutcome struct {
	// FinalAnswer is the model's answer text, from either action=answer or a
	// plain assistant reply. Empty answers are legal, hence Answered.
	FinalAnswer string
	Answered    bool
	// Terminated holds the model's self-reported task status, or "" when the
	// run ended without an explicit terminate.
	Terminated schema.TerminateStatus
	Reason     FinishReason
	Turns      int
}

// ChatClient is the slice of llmclient.Client the loop needs.
type ChatClient interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, tools []openai.ChatCompletionToolUnionParam) (*openai.ChatCompletionMessage, error)
}

// ActionExecutor is the slice of executor.Executor the loop needs.
type ActionExecutor interface {
	Execute(ctx context.Context, req schema.ActionRequest) (*schema.ActionResult, error)
}

// Loop drives the model/executor conversation: one completion per turn, one
// tool result per tool call, until the model finishes or the turn budget
// runs out.
type Loop struct {
	client   ChatClient
	exec     ActionExecutor
	task     string
	maxTurns int
	progress io.Writer
	logger   *zap.Logger
	runID    string
	state    State
}

// New assembles a loop for a single run. progress receives the operator
// transcript ([Assistant], [Agent Answer], [Terminate] lines); structured
// logs go to the logger.
func New(client ChatClient, exec ActionExecutor, task string, maxTurns int, progress io.Writer, logger *zap.Logger) *Loop {
	runID := uuid.NewString()
	return &Loop{
		client:   client,
		exec:     exec,
		task:     task,
		maxTurns: maxTurns,
		progress: progress,
		logger:   logger.Named("agent").With(zap.String("run_id", runID)),
		runID:    runID,
		state:    StateIdle,
	}
}

// RunID identifies this run in logs and can be correlated with screenshots.
func (l *Loop) RunID() string { return l.runID }

// State reports the loop's last observed state.
func (l *Loop) State() State { return l.state }

// Run executes the conversation until a finish condition. Only endpoint and
// context failures are returned as errors; everything the model does wrong
// (unknown actions, bad arguments, failed executions) is reported back to it
// as a failed tool result and the conversation continues.
func (l *Loop) Run(ctx context.Context) (*RunOutcome, error) {
	history := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(schema.SystemPrompt),
		openai.UserMessage(l.task),
	}
	tools := []openai.ChatCompletionToolUnionParam{llmclient.ComputerUseTool()}

	outcome := &RunOutcome{}
	l.logger.Info("Starting run", zap.String("task", l.task), zap.Int("max_turns", l.maxTurns))

	for turn := 1; turn <= l.maxTurns; turn++ {
		outcome.Turns = turn
		l.state = StateAwaitingModel

		msg, err := l.client.Complete(ctx, history, tools)
		if err != nil {
			l.state = StateFinished
			return nil, err
		}
		history = append(history, msg.ToParam())

		if len(msg.ToolCalls) == 0 {
			// A plain text reply is the model's way of closing the
			// conversation without the bookkeeping actions.
			fmt.Fprintf(l.progress, "[Assistant] %s\n", msg.Content)
			outcome.FinalAnswer = msg.Content
			outcome.Answered = true
			outcome.Reason = FinishAssistantText
			l.state = StateFinished
			l.logger.Info("Run finished", zap.String("reason", string(outcome.Reason)), zap.Int("turns", turn))
			return outcome, nil
		}

		l.state = StateDispatchingTool
		for _, tc := range msg.ToolCalls {
			result, fatal := l.dispatch(ctx, tc)
			if fatal != nil {
				l.state = StateFinished
				return nil, fatal
			}

			switch result.Status {
			case schema.StatusAnswer:
				text := ""
				if result.Text != nil {
					text = *result.Text
				}
				outcome.FinalAnswer = text
				outcome.Answered = true
				fmt.Fprintf(l.progress, "[Agent Answer] %s\n", text)
			case schema.StatusTerminate:
				outcome.Terminated = result.Result
				fmt.Fprintf(l.progress, "[Terminate] status=%s\n", result.Result)
			}

			payload, err := json.Marshal(result)
			if err != nil {
				// Can only happen if ActionResult itself is broken.
				return nil, fmt.Errorf("encode tool result for call %s: %w", tc.ID, err)
			}
			// Every call in the round gets its result appended, even after a
			// terminate: the history must stay well-formed.
			history = append(history, openai.ToolMessage(string(payload), tc.ID))
		}

		if outcome.Terminated != "" {
			outcome.Reason = FinishTerminate
			l.state = StateFinished
			l.logger.Info("Run finished",
				zap.String("reason", string(outcome.Reason)),
				zap.String("status", string(outcome.Terminated)),
				zap.Int("turns", turn))
			return outcome, nil
		}
	}

	outcome.Reason = FinishTurnLimit
	l.state = StateFinished
	l.logger.Warn("Turn budget exhausted", zap.Int("max_turns", l.maxTurns))
	return outcome, nil
}

// dispatch executes one tool call and always yields a result to send back.
// The second return is non-nil only for context cancellation, which ends the
// run instead of being reported to the model.
func (l *Loop) dispatch(ctx context.Context, tc openai.ChatCompletionMessageToolCallUnion) (*schema.ActionResult, error) {
	args := tc.Function.Arguments
	if args == "" {
		args = "{}"
	}

	var req schema.ActionRequest
	if err := json.UnmarshalFromString(args, &req); err != nil {
		merr := &MalformedArgumentsError{CallID: tc.ID, Err: err}
		l.logger.Warn("Rejected tool call", zap.Error(merr))
		return errorResult(merr), nil
	}

	l.logger.Debug("Executing action", zap.String("action", string(req.Action)), zap.String("call_id", tc.ID))
	result, err := l.exec.Execute(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.logger.Warn("Action failed", zap.String("action", string(req.Action)), zap.Error(err))
		return errorResult(err), nil
	}
	return result, nil
}

func errorResult(err error) *schema.ActionResult {
	return &schema.ActionResult{Status: schema.StatusError, Detail: err.Error()}
}
