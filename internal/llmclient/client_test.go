// internal/llmclient/client_test.go
package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/openai/openai-go/v2"

	"github.com/xkilldash9x/deskpilot-cli/internal/config"
	"github.com/xkilldash9x/deskpilot-cli/internal/schema"
)

func testLLMConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Model:          "test-model",
		APIKey:         "EMPTY",
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
		Temperature:    0.0,
	}
}

func TestComputerUseTool(t *testing.T) {
	tool := ComputerUseTool()
	require.NotNil(t, tool.OfFunction)

	fn := tool.OfFunction.Function
	assert.Equal(t, schema.ToolName, fn.Name)
	assert.Equal(t, schema.ToolDescription, fn.Description.Value)

	params := map[string]any(fn.Parameters)
	required, ok := params["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"action"}, required)
}

func TestClientComplete(t *testing.T) {
	t.Run("returns the first choice's assistant message", func(t *testing.T) {
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "cmpl-1",
				"object": "chat.completion",
				"model": "test-model",
				"choices": [{
					"index": 0,
					"finish_reason": "tool_calls",
					"message": {
						"role": "assistant",
						"content": "",
						"tool_calls": [{
							"id": "call-1",
							"type": "function",
							"function": {
								"name": "computer_use",
								"arguments": "{\"action\":\"wait\",\"time\":1}"
							}
						}]
					}
				}]
			}`))
		}))
		defer srv.Close()

		client := New(testLLMConfig(srv.URL), zaptest.NewLogger(t))
		msg, err := client.Complete(context.Background(),
			[]openai.ChatCompletionMessageParamUnion{openai.UserMessage("do something")},
			[]openai.ChatCompletionToolUnionParam{ComputerUseTool()})
		require.NoError(t, err)

		require.Len(t, msg.ToolCalls, 1)
		assert.Equal(t, "call-1", msg.ToolCalls[0].ID)
		assert.Equal(t, "computer_use", msg.ToolCalls[0].Function.Name)
		assert.JSONEq(t, `{"action":"wait","time":1}`, msg.ToolCalls[0].Function.Arguments)

		// The request must carry the configured model and the tool declaration.
		assert.Equal(t, "test-model", gotBody["model"])
		tools, ok := gotBody["tools"].([]any)
		require.True(t, ok)
		require.Len(t, tools, 1)
		fn := tools[0].(map[string]any)["function"].(map[string]any)
		assert.Equal(t, "computer_use", fn["name"])
	})

	t.Run("wraps a non-2xx response in EndpointError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": {"message": "bad request"}}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		client := New(testLLMConfig(srv.URL), zaptest.NewLogger(t))
		_, err := client.Complete(context.Background(), nil, nil)

		var epErr *EndpointError
		require.ErrorAs(t, err, &epErr)
	})

	t.Run("wraps an empty choices list in EndpointError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "cmpl-2", "object": "chat.completion", "choices": []}`))
		}))
		defer srv.Close()

		client := New(testLLMConfig(srv.URL), zaptest.NewLogger(t))
		_, err := client.Complete(context.Background(), nil, nil)

		var epErr *EndpointError
		require.ErrorAs(t, err, &epErr)
		assert.Contains(t, err.Error(), "no choices")
	})

	t.Run("wraps a connection failure in EndpointError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		client := New(testLLMConfig(srv.URL), zaptest.NewLogger(t))
		_, err := client.Complete(context.Background(), nil, nil)

		var epErr *EndpointError
		require.ErrorAs(t, err, &epErr)
	})
}
