package openai

import (
	"context"
	"encoding/json"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Role of a chat message author
type Role string

// Message is one turn in a chat conversation
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallId string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a function call requested by the model
type ToolCall struct {
	Id       string       `json:"id,omitempty"`
	Index    *int         `json:"index,omitempty"`
	Type     string       `json:"type,omitempty"`
	Function FunctionCall `json:"function"`
}

// FunctionCall is the name and JSON-encoded arguments of a call
type FunctionCall struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// Tool is a function the model may call
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function describes a callable function and its parameters
type Function struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
	Strict      *bool              `json:"strict,omitempty"`
}

// ResponseFormat constrains the model output to JSON
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// JSONSchema names a schema for structured output
type JSONSchema struct {
	Name   string             `json:"name"`
	Schema *jsonschema.Schema `json:"schema"`
	Strict *bool              `json:"strict,omitempty"`
}

// ChatRequest is a request to /chat/completions
type ChatRequest struct {
	Model            string             `json:"model"`
	Messages         []Message          `json:"messages"`
	Temperature      *float64           `json:"temperature,omitempty"`
	TopP             *float64           `json:"top_p,omitempty"`
	N                *uint64            `json:"n,omitempty"`
	Stream           *bool              `json:"stream,omitempty"`
	Stop             Input              `json:"stop,omitempty"`
	MaxTokens        *uint64            `json:"max_tokens,omitempty"`
	PresencePenalty  *float64           `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64           `json:"frequency_penalty,omitempty"`
	LogitBias        map[string]float64 `json:"logit_bias,omitempty"`
	User             string             `json:"user,omitempty"`
	Seed             *int64             `json:"seed,omitempty"`
	Tools            []Tool             `json:"tools,omitempty"`
	ToolChoice       any                `json:"tool_choice,omitempty"`
	ResponseFormat   *ResponseFormat    `json:"response_format,omitempty"`
}

// ChatResponse is the response from /chat/completions
type ChatResponse struct {
	Id      string       `json:"id"`
	Object  string       `json:"object"`
	Created uint64       `json:"created"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// ChatChoice is one generated message
type ChatChoice struct {
	Index        uint64  `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatChunk is one streamed event from /chat/completions
type ChatChunk struct {
	Id      string            `json:"id"`
	Object  string            `json:"object"`
	Created uint64            `json:"created"`
	Model   string            `json:"model,omitempty"`
	Choices []ChatChunkChoice `json:"choices"`
}

// ChatChunkChoice carries the delta for one choice
type ChatChunkChoice struct {
	Index        uint64  `json:"index"`
	Delta        Message `json:"delta"`
	FinishReason *string `json:"finish_reason,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

const (
	defaultChatModel = "gpt-3.5-turbo"
	endpointChat     = "chat/completions"
	toolTypeFunction = "function"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewChatRequest returns a chat request for the default model
func NewChatRequest(messages ...Message) *ChatRequest {
	return NewChatRequestWithModel(defaultChatModel, messages...)
}

// NewChatRequestWithModel returns a chat request for a named model
func NewChatRequestWithModel(model string, messages ...Message) *ChatRequest {
	return &ChatRequest{
		Model:    model,
		Messages: messages,
	}
}

// NewMessage returns a message with text content
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// NewToolResult returns a message with the result of a tool call
func NewToolResult(id, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallId: id}
}

// NewFunctionTool returns a tool whose parameters are the JSON schema of T
func NewFunctionTool[T any](name, description string) (Tool, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return Tool{}, err
	}
	return Tool{
		Type: toolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r ChatResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - REQUEST

func (r *ChatRequest) Endpoint() string {
	return endpointChat
}

func (r *ChatRequest) Validate() error {
	if r.Model == "" {
		return ErrBadParameter.With("missing model")
	} else if len(r.Messages) == 0 {
		return ErrBadParameter.With("missing messages")
	}
	return nil
}

// WithModel sets the model
func (r *ChatRequest) WithModel(model string) *ChatRequest {
	r.Model = model
	return r
}

// WithMessage appends a message
func (r *ChatRequest) WithMessage(message Message) *ChatRequest {
	r.Messages = append(r.Messages, message)
	return r
}

// WithTemperature sets the sampling temperature, clamped to [0,2], and
// clears top_p
func (r *ChatRequest) WithTemperature(v float64) *ChatRequest {
	r.TopP = nil
	r.Temperature = types.Ptr(clamp(v, 0, 2))
	return r
}

// WithTopP sets nucleus sampling, clamped to [0,1], and clears the
// temperature
func (r *ChatRequest) WithTopP(v float64) *ChatRequest {
	r.Temperature = nil
	r.TopP = types.Ptr(clamp(v, 0, 1))
	return r
}

// WithN sets the number of choices to generate
func (r *ChatRequest) WithN(n uint64) *ChatRequest {
	r.N = types.Ptr(n)
	return r
}

// WithStop sets one or more stop sequences
func (r *ChatRequest) WithStop(stop ...string) *ChatRequest {
	r.Stop = NewInput(stop...)
	return r
}

// WithMaxTokens sets the maximum number of generated tokens
func (r *ChatRequest) WithMaxTokens(n uint64) *ChatRequest {
	r.MaxTokens = types.Ptr(n)
	return r
}

// WithPresencePenalty sets the presence penalty, clamped to [-2,2]
func (r *ChatRequest) WithPresencePenalty(v float64) *ChatRequest {
	r.PresencePenalty = types.Ptr(clamp(v, -2, 2))
	return r
}

// WithFrequencyPenalty sets the frequency penalty, clamped to [-2,2]
func (r *ChatRequest) WithFrequencyPenalty(v float64) *ChatRequest {
	r.FrequencyPenalty = types.Ptr(clamp(v, -2, 2))
	return r
}

// WithLogitBias sets the bias for a token
func (r *ChatRequest) WithLogitBias(token string, bias float64) *ChatRequest {
	if r.LogitBias == nil {
		r.LogitBias = make(map[string]float64)
	}
	r.LogitBias[token] = clamp(bias, -100, 100)
	return r
}

// WithUser sets the end-user identifier
func (r *ChatRequest) WithUser(user string) *ChatRequest {
	r.User = user
	return r
}

// WithSeed requests deterministic sampling
func (r *ChatRequest) WithSeed(seed int64) *ChatRequest {
	r.Seed = types.Ptr(seed)
	return r
}

// WithTool appends tools the model may call
func (r *ChatRequest) WithTool(tools ...Tool) *ChatRequest {
	r.Tools = append(r.Tools, tools...)
	return r
}

// WithToolChoice sets "none", "auto" or "required", or otherwise forces
// a call to the named function
func (r *ChatRequest) WithToolChoice(choice string) *ChatRequest {
	switch choice {
	case "none", "auto", "required":
		r.ToolChoice = choice
	default:
		r.ToolChoice = Tool{
			Type:     toolTypeFunction,
			Function: Function{Name: choice},
		}
	}
	return r
}

// WithJSONObject constrains the output to a JSON object
func (r *ChatRequest) WithJSONObject() *ChatRequest {
	r.ResponseFormat = &ResponseFormat{Type: "json_object"}
	return r
}

// WithJSONSchema constrains the output to a named JSON schema
func (r *ChatRequest) WithJSONSchema(name string, schema *jsonschema.Schema) *ChatRequest {
	r.ResponseFormat = &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchema{
			Name:   name,
			Schema: schema,
			Strict: types.Ptr(true),
		},
	}
	return r
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - RESPONSE

// Text returns the content of the first choice, or an empty string
func (r *ChatResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// ToolCalls returns the tool calls of the first choice
func (r *ChatResponse) ToolCalls() []ToolCall {
	if len(r.Choices) == 0 {
		return nil
	}
	return r.Choices[0].Message.ToolCalls
}

// Decode the arguments of a tool call into v
func (t ToolCall) Decode(v any) error {
	if err := json.Unmarshal([]byte(t.Function.Arguments), v); err != nil {
		return &DecodeError{Body: t.Function.Arguments, Err: err}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// Chat creates a model response for a conversation
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	r := *req
	r.Stream = nil
	return PostJSON[ChatResponse](ctx, c, &r)
}

// ChatStream creates a model response for a conversation, calling fn for
// each streamed chunk
func (c *Client) ChatStream(ctx context.Context, req *ChatRequest, fn func(*ChatChunk) error) error {
	r := *req
	r.Stream = types.Ptr(true)
	return stream(ctx, c, &r, fn)
}
