package openai

import (
	"context"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// CompletionRequest is a request to the legacy /completions endpoint
type CompletionRequest struct {
	Model            string             `json:"model"`
	Prompt           Input              `json:"prompt"`
	Suffix           string             `json:"suffix,omitempty"`
	MaxTokens        *uint64            `json:"max_tokens,omitempty"`
	Temperature      *float64           `json:"temperature,omitempty"`
	TopP             *float64           `json:"top_p,omitempty"`
	N                *uint64            `json:"n,omitempty"`
	Stream           *bool              `json:"stream,omitempty"`
	Logprobs         *uint64            `json:"logprobs,omitempty"`
	Echo             *bool              `json:"echo,omitempty"`
	Stop             Input              `json:"stop,omitempty"`
	PresencePenalty  *float64           `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64           `json:"frequency_penalty,omitempty"`
	BestOf           *uint64            `json:"best_of,omitempty"`
	LogitBias        map[string]float64 `json:"logit_bias,omitempty"`
	User             string             `json:"user,omitempty"`
}

// CompletionResponse is the response from /completions. Streamed chunks
// have the same shape.
type CompletionResponse struct {
	Id      string             `json:"id"`
	Object  string             `json:"object"`
	Created uint64             `json:"created"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Usage   *Usage             `json:"usage,omitempty"`
}

// CompletionChoice is one generated text
type CompletionChoice struct {
	Text         string    `json:"text"`
	Index        uint64    `json:"index"`
	Logprobs     *Logprobs `json:"logprobs,omitempty"`
	FinishReason string    `json:"finish_reason,omitempty"`
}

// Logprobs are the log probabilities of generated tokens
type Logprobs struct {
	Tokens        []string             `json:"tokens"`
	TokenLogprobs []float64            `json:"token_logprobs"`
	TopLogprobs   []map[string]float64 `json:"top_logprobs,omitempty"`
	TextOffset    []uint64             `json:"text_offset"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultCompletionModel = "text-davinci-003"
	endpointCompletion     = "completions"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewCompletionRequest returns a completion request for the default model
func NewCompletionRequest(prompt ...string) *CompletionRequest {
	return NewCompletionRequestWithModel(defaultCompletionModel, prompt...)
}

// NewCompletionRequestWithModel returns a completion request for a named
// model
func NewCompletionRequestWithModel(model string, prompt ...string) *CompletionRequest {
	return &CompletionRequest{
		Model:  model,
		Prompt: NewInput(prompt...),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (r *CompletionRequest) Endpoint() string {
	return endpointCompletion
}

func (r *CompletionRequest) Validate() error {
	if r.Model == "" {
		return ErrBadParameter.With("missing model")
	} else if len(r.Prompt) == 0 {
		return ErrBadParameter.With("missing prompt")
	}
	return nil
}

func (r *CompletionRequest) WithModel(model string) *CompletionRequest {
	r.Model = model
	return r
}

func (r *CompletionRequest) WithSuffix(suffix string) *CompletionRequest {
	r.Suffix = suffix
	return r
}

func (r *CompletionRequest) WithMaxTokens(n uint64) *CompletionRequest {
	r.MaxTokens = types.Ptr(n)
	return r
}

// WithTemperature sets the sampling temperature, clamped to [0,2], and
// clears top_p
func (r *CompletionRequest) WithTemperature(v float64) *CompletionRequest {
	r.TopP = nil
	r.Temperature = types.Ptr(clamp(v, 0, 2))
	return r
}

// WithTopP sets nucleus sampling, clamped to [0,1], and clears the
// temperature
func (r *CompletionRequest) WithTopP(v float64) *CompletionRequest {
	r.Temperature = nil
	r.TopP = types.Ptr(clamp(v, 0, 1))
	return r
}

func (r *CompletionRequest) WithN(n uint64) *CompletionRequest {
	r.N = types.Ptr(n)
	return r
}

// WithLogprobs requests the log probabilities of the n most likely tokens
func (r *CompletionRequest) WithLogprobs(n uint64) *CompletionRequest {
	r.Logprobs = types.Ptr(min(n, 5))
	return r
}

func (r *CompletionRequest) WithEcho(echo bool) *CompletionRequest {
	r.Echo = types.Ptr(echo)
	return r
}

func (r *CompletionRequest) WithStop(stop ...string) *CompletionRequest {
	r.Stop = NewInput(stop...)
	return r
}

// WithPresencePenalty sets the presence penalty, clamped to [-2,2]
func (r *CompletionRequest) WithPresencePenalty(v float64) *CompletionRequest {
	r.PresencePenalty = types.Ptr(clamp(v, -2, 2))
	return r
}

// WithFrequencyPenalty sets the frequency penalty, clamped to [-2,2]
func (r *CompletionRequest) WithFrequencyPenalty(v float64) *CompletionRequest {
	r.FrequencyPenalty = types.Ptr(clamp(v, -2, 2))
	return r
}

func (r *CompletionRequest) WithBestOf(n uint64) *CompletionRequest {
	r.BestOf = types.Ptr(n)
	return r
}

func (r *CompletionRequest) WithLogitBias(token string, bias float64) *CompletionRequest {
	if r.LogitBias == nil {
		r.LogitBias = make(map[string]float64)
	}
	r.LogitBias[token] = clamp(bias, -100, 100)
	return r
}

func (r *CompletionRequest) WithUser(user string) *CompletionRequest {
	r.User = user
	return r
}

// Text returns the first generated text, or an empty string
func (r *CompletionResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Text
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// Complete generates text for a prompt
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	r := *req
	r.Stream = nil
	return PostJSON[CompletionResponse](ctx, c, &r)
}

// CompleteStream generates text for a prompt, calling fn for each streamed
// chunk
func (c *Client) CompleteStream(ctx context.Context, req *CompletionRequest, fn func(*CompletionResponse) error) error {
	r := *req
	r.Stream = types.Ptr(true)
	return stream(ctx, c, &r, fn)
}
