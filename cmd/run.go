// -- cmd/run.go --
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot-cli/internal/agent"
	"github.com/xkilldash9x/deskpilot-cli/internal/config"
	"github.com/xkilldash9x/deskpilot-cli/internal/display"
	"github.com/xkilldash9x/deskpilot-cli/internal/executor"
	"github.com/xkilldash9x/deskpilot-cli/internal/llmclient"
	"github.com/xkilldash9x/deskpilot-cli/internal/observability"
	"github.com/xkilldash9x/deskpilot-cli/internal/screenshot"
)

// Constructor variables for dependency injection/mocking in tests.
var (
	newInputBackend = func() display.InputBackend {
		return display.RobotgoInput{}
	}
	newCaptureBackend = func() display.CaptureBackend {
		return display.KbinaniCapture{}
	}
	newChatClient = func(cfg config.LLMConfig, logger *zap.Logger) agent.ChatClient {
		return llmclient.New(cfg, logger)
	}
)

// runFlagBindings maps each run flag to its configuration key. Binding in
// PreRunE is the idiomatic way to let flags override config file and
// environment values with the right precedence.
var runFlagBindings = map[string]string{
	"task":                "agent.task",
	"max-turns":           "agent.max_turns",
	"model":               "llm.model",
	"api-key":             "llm.api_key",
	"base-url":            "llm.base_url",
	"timeout":             "llm.request_timeout",
	"temperature":         "llm.temperature",
	"screenshot-dir":      "screenshot.dir",
	"monitor-index":       "screenshot.monitor_index",
	"mouse-move-duration": "input.mouse_move_duration",
	"drag-duration":       "input.drag_duration",
	"type-interval":       "input.type_interval",
}

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the agent against the configured task",
		Long: "Run starts a conversation with the configured vision-language model and " +
			"executes the mouse, keyboard and screenshot actions it requests until the " +
			"model reports the task finished or the turn budget runs out.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for flag, key := range runFlagBindings {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from main.go (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Re-unmarshal so the flag overrides bound in PreRunE apply.
			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			capture := newCaptureBackend()
			if err := display.Probe(capture); err != nil {
				return err
			}

			input := newInputBackend()
			shots, err := screenshot.New(cfg.Screenshot.Dir, cfg.Screenshot.MonitorIndex, capture, input, logger)
			if err != nil {
				return err
			}

			exec := executor.New(input, shots, executor.Options{
				MouseMoveDuration: cfg.Input.MouseMoveDuration,
				DragDuration:      cfg.Input.DragDuration,
				TypeInterval:      cfg.Input.TypeInterval,
			}, logger)

			client := newChatClient(cfg.LLM, logger)
			loop := agent.New(client, exec, cfg.Agent.Task, cfg.Agent.MaxTurns, cmd.OutOrStdout(), logger)

			logger.Info("Starting agent run",
				zap.String("run_id", loop.RunID()),
				zap.String("model", cfg.LLM.Model),
				zap.String("base_url", cfg.LLM.BaseURL),
				zap.Int("monitor_index", cfg.Screenshot.MonitorIndex))

			outcome, err := loop.Run(ctx)
			if err != nil {
				var epErr *llmclient.EndpointError
				if errors.As(err, &epErr) {
					logger.Error("Endpoint failure ended the run", zap.Error(err))
				}
				return err
			}

			out := cmd.OutOrStdout()
			if outcome.Answered {
				fmt.Fprintf(out, "[Final Answer] %s\n", outcome.FinalAnswer)
			}
			if outcome.Terminated != "" {
				fmt.Fprintf(out, "[Task Status] %s\n", outcome.Terminated)
			}
			if outcome.Reason == agent.FinishTurnLimit {
				logger.Warn("Run ended at the turn limit without a terminate",
					zap.Int("turns", outcome.Turns))
			}
			return nil
		},
	}

	runCmd.Flags().StringP("task", "t", "", "Natural-language task for the agent. (Overrides config/env)")
	runCmd.Flags().Int("max-turns", 0, "Maximum model turns before the run is cut off. (Overrides config/env)")
	runCmd.Flags().String("model", "", "Model name sent to the chat-completions endpoint. (Overrides config/env)")
	runCmd.Flags().String("api-key", "", "API key for the endpoint; local servers accept any value. (Overrides config/env)")
	runCmd.Flags().String("base-url", "", "Base URL of the OpenAI-compatible endpoint. (Overrides config/env)")
	runCmd.Flags().Duration("timeout", 0, "Per-request timeout for the endpoint. (Overrides config/env)")
	runCmd.Flags().Float64("temperature", 0, "Sampling temperature, 0.0 to 2.0. (Overrides config/env)")
	runCmd.Flags().String("screenshot-dir", "", "Directory for post-action screenshots. (Overrides config/env)")
	runCmd.Flags().Int("monitor-index", 0, "1-based monitor to capture; 0 captures all displays combined. (Overrides config/env)")
	runCmd.Flags().Duration("mouse-move-duration", 0, "Smoothing duration for mouse moves. (Overrides config/env)")
	runCmd.Flags().Duration("drag-duration", 0, "Travel time for left_click_drag. (Overrides config/env)")
	runCmd.Flags().Duration("type-interval", 0, "Pause between typed characters. (Overrides config/env)")

	return runCmd
}
