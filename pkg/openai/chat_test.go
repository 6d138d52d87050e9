package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	assert "github.com/stretchr/testify/assert"
)

type weatherArgs struct {
	City string `json:"city" jsonschema:"The city to return the weather for"`
}

func Test_chat_001(t *testing.T) {
	// Absent optional fields are omitted from the request body
	assert := assert.New(t)
	req := openai.NewChatRequest(openai.NewMessage(openai.RoleUser, "hello!"))

	data, err := json.Marshal(req)
	if !assert.NoError(err) {
		t.FailNow()
	}
	var body map[string]any
	assert.NoError(json.Unmarshal(data, &body))
	assert.Equal("gpt-3.5-turbo", body["model"])
	assert.Len(body["messages"], 1)
	for _, key := range []string{"temperature", "top_p", "n", "stream", "stop", "max_tokens", "presence_penalty", "frequency_penalty", "logit_bias", "user", "tools", "tool_choice", "response_format"} {
		assert.NotContains(body, key)
	}
}

func Test_chat_002(t *testing.T) {
	// Present fields use their wire names
	assert := assert.New(t)
	req := openai.NewChatRequest(openai.NewMessage(openai.RoleSystem, "be brief")).
		WithMessage(openai.NewMessage(openai.RoleUser, "hello!")).
		WithN(2).
		WithMaxTokens(100).
		WithStop("\n").
		WithUser("user-1").
		WithLogitBias("50256", -100)

	data, err := json.Marshal(req)
	if !assert.NoError(err) {
		t.FailNow()
	}
	var body map[string]any
	assert.NoError(json.Unmarshal(data, &body))
	assert.Len(body["messages"], 2)
	assert.Equal(float64(2), body["n"])
	assert.Equal(float64(100), body["max_tokens"])
	assert.Equal("\n", body["stop"])
	assert.Equal("user-1", body["user"])
	assert.Equal(map[string]any{"50256": float64(-100)}, body["logit_bias"])
}

func Test_chat_003(t *testing.T) {
	// Temperature and top_p are clamped and exclude each other
	assert := assert.New(t)
	req := openai.NewChatRequest().WithTemperature(3.5)
	if assert.NotNil(req.Temperature) {
		assert.Equal(2.0, *req.Temperature)
	}
	assert.Nil(req.TopP)

	req.WithTopP(-1)
	assert.Nil(req.Temperature)
	if assert.NotNil(req.TopP) {
		assert.Equal(0.0, *req.TopP)
	}

	req.WithTemperature(0.7)
	assert.Nil(req.TopP)
	if assert.NotNil(req.Temperature) {
		assert.Equal(0.7, *req.Temperature)
	}
}

func Test_chat_004(t *testing.T) {
	// Penalties are clamped to [-2,2]
	assert := assert.New(t)
	req := openai.NewChatRequest().WithPresencePenalty(5).WithFrequencyPenalty(-5)
	assert.Equal(2.0, *req.PresencePenalty)
	assert.Equal(-2.0, *req.FrequencyPenalty)

	req.WithPresencePenalty(0.5)
	assert.Equal(0.5, *req.PresencePenalty)
}

func Test_chat_005(t *testing.T) {
	// Chat posts to /chat/completions and decodes the response
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		body := decodeBody(t, r)
		assert.Equal("gpt-3.5-turbo", body["model"])
		assert.NotContains(body, "stream")
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      "chatcmpl-123",
			"object":  "chat.completion",
			"created": 1677652288,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Hello there, how may I assist you today?"},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 9, "completion_tokens": 12, "total_tokens": 21},
		})
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	response, err := c.Chat(context.TODO(), openai.NewChatRequest(openai.NewMessage(openai.RoleUser, "hello!")))
	if assert.NoError(err) {
		assert.Equal("chatcmpl-123", response.Id)
		assert.Equal("chat.completion", response.Object)
		assert.Equal(uint64(1677652288), response.Created)
		if assert.Len(response.Choices, 1) {
			assert.Equal(openai.RoleAssistant, response.Choices[0].Message.Role)
			assert.Equal("stop", response.Choices[0].FinishReason)
		}
		assert.Equal("Hello there, how may I assist you today?", response.Text())
		assert.Equal(openai.Usage{PromptTokens: 9, CompletionTokens: 12, TotalTokens: 21}, response.Usage)
	}
}

func Test_chat_006(t *testing.T) {
	// A request without messages fails before any request is made
	assert := assert.New(t)
	srv := newMockServer(t, http.NewServeMux())
	c := newClient(t, srv.URL)

	_, err := c.Chat(context.TODO(), openai.NewChatRequest())
	assert.ErrorIs(err, openai.ErrBadParameter)
	assert.Equal(int32(0), srv.hits.Load())
}

func Test_chat_007(t *testing.T) {
	// Streamed chunks are passed to the callback until the done sentinel
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(true, body["stream"])
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, text := range []string{"Hello", " world"} {
			fmt.Fprintf(w, "data: {\"id\":\"chatcmpl-1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", text)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	var text strings.Builder
	var chunks int
	err := c.ChatStream(context.TODO(), openai.NewChatRequest(openai.NewMessage(openai.RoleUser, "hello!")), func(chunk *openai.ChatChunk) error {
		chunks++
		for _, choice := range chunk.Choices {
			text.WriteString(choice.Delta.Content)
		}
		return nil
	})
	if assert.NoError(err) {
		assert.Equal(2, chunks)
		assert.Equal("Hello world", text.String())
	}
}

func Test_chat_008(t *testing.T) {
	// Function tools carry the JSON schema of their arguments
	assert := assert.New(t)
	tool, err := openai.NewFunctionTool[weatherArgs]("get_weather", "Return the weather")
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Equal("function", tool.Type)
	assert.Equal("get_weather", tool.Function.Name)
	if assert.NotNil(tool.Function.Parameters) {
		assert.Equal("object", tool.Function.Parameters.Type)
		assert.Contains(tool.Function.Parameters.Properties, "city")
	}

	req := openai.NewChatRequest(openai.NewMessage(openai.RoleUser, "weather in Berlin?")).WithTool(tool).WithToolChoice("get_weather")
	data, err := json.Marshal(req)
	if assert.NoError(err) {
		var body map[string]any
		assert.NoError(json.Unmarshal(data, &body))
		assert.Len(body["tools"], 1)
		assert.Equal(map[string]any{"type": "function", "function": map[string]any{"name": "get_weather"}}, body["tool_choice"])
	}

	req.WithToolChoice("auto")
	assert.Equal("auto", req.ToolChoice)
}

func Test_chat_009(t *testing.T) {
	// Tool calls in a response decode into their argument type
	assert := assert.New(t)
	var response openai.ChatResponse
	err := json.Unmarshal([]byte(`{
		"id": "chatcmpl-2", "object": "chat.completion", "created": 1,
		"choices": [{"index": 0, "finish_reason": "tool_calls", "message": {
			"role": "assistant", "content": null,
			"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "get_weather", "arguments": "{\"city\":\"Berlin\"}"}}]
		}}],
		"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
	}`), &response)
	if !assert.NoError(err) {
		t.FailNow()
	}

	calls := response.ToolCalls()
	if assert.Len(calls, 1) {
		var args weatherArgs
		assert.NoError(calls[0].Decode(&args))
		assert.Equal("Berlin", args.City)
	}

	var decodeErr *openai.DecodeError
	bad := openai.ToolCall{Function: openai.FunctionCall{Arguments: "{"}}
	assert.True(errors.As(bad.Decode(&weatherArgs{}), &decodeErr))
}

func Test_chat_010(t *testing.T) {
	// Structured output formats
	assert := assert.New(t)
	req := openai.NewChatRequest().WithJSONObject()
	assert.Equal("json_object", req.ResponseFormat.Type)
	assert.Nil(req.ResponseFormat.JSONSchema)

	tool, err := openai.NewFunctionTool[weatherArgs]("x", "")
	if assert.NoError(err) {
		req.WithJSONSchema("weather", tool.Function.Parameters)
		assert.Equal("json_schema", req.ResponseFormat.Type)
		assert.Equal("weather", req.ResponseFormat.JSONSchema.Name)
	}
}
