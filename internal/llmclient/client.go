// internal/llmclient/client.go
package llmclient

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot-cli/internal/config"
	"github.com/xkilldash9x/deskpilot-cli/internal/schema"
)

// Client is a thin wrapper around an OpenAI-compatible chat-completions
// endpoint. It owns the model name and sampling temperature so callers only
// deal in message history and tool declarations.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	logger      *zap.Logger
}

// New builds a client for the configured endpoint. Local inference servers
// such as vLLM accept any non-empty API key, hence the "EMPTY" default.
func New(cfg config.LLMConfig, logger *zap.Logger) *Client {
	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.RequestTimeout),
	)
	return &Client{
		api:         api,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      logger.Named("llmclient"),
	}
}

// ComputerUseTool builds the single function declaration advertised to the
// model on every request.
func ComputerUseTool() openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        schema.ToolName,
				Description: openai.String(schema.ToolDescription),
				Parameters:  openai.FunctionParameters(schema.ToolParameters()),
			},
		},
	}
}

// Complete sends the full history plus tool declarations and returns the
// assistant message of the first choice. Any transport or protocol failure
// comes back as an *EndpointError.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, tools []openai.ChatCompletionToolUnionParam) (*openai.ChatCompletionMessage, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    messages,
		Tools:       tools,
		Temperature: openai.Float(c.temperature),
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &EndpointError{Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, &EndpointError{Err: errors.New("response contained no choices")}
	}

	msg := completion.Choices[0].Message
	c.logger.Debug("Received completion",
		zap.String("model", c.model),
		zap.Int("tool_calls", len(msg.ToolCalls)),
		zap.Int("content_len", len(msg.Content)))
	return &msg, nil
}
