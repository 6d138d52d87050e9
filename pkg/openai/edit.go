package openai

import (
	"context"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// EditRequest is a request to /edits
type EditRequest struct {
	Model       string   `json:"model"`
	Input       string   `json:"input,omitempty"`
	Instruction string   `json:"instruction"`
	N           *uint64  `json:"n,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// EditResponse is the response from /edits
type EditResponse struct {
	Object  string       `json:"object"`
	Created uint64       `json:"created"`
	Choices []EditChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

// EditChoice is one edited text
type EditChoice struct {
	Text  string `json:"text"`
	Index uint64 `json:"index"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ModelTextEdit = "text-davinci-edit-001"
	ModelCodeEdit = "code-davinci-edit-001"
	endpointEdit  = "edits"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTextEditRequest returns an edit request for the text edit model
func NewTextEditRequest(instruction string) *EditRequest {
	return NewEditRequestWithModel(ModelTextEdit, instruction)
}

// NewCodeEditRequest returns an edit request for the code edit model
func NewCodeEditRequest(instruction string) *EditRequest {
	return NewEditRequestWithModel(ModelCodeEdit, instruction)
}

// NewEditRequestWithModel returns an edit request for a named model
func NewEditRequestWithModel(model, instruction string) *EditRequest {
	return &EditRequest{
		Model:       model,
		Instruction: instruction,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (r *EditRequest) Endpoint() string {
	return endpointEdit
}

func (r *EditRequest) Validate() error {
	if r.Model == "" {
		return ErrBadParameter.With("missing model")
	} else if r.Instruction == "" {
		return ErrBadParameter.With("missing instruction")
	}
	return nil
}

// WithInput sets the text to edit
func (r *EditRequest) WithInput(input string) *EditRequest {
	r.Input = input
	return r
}

func (r *EditRequest) WithN(n uint64) *EditRequest {
	r.N = types.Ptr(n)
	return r
}

// WithTemperature sets the sampling temperature, clamped to [0,2]
func (r *EditRequest) WithTemperature(v float64) *EditRequest {
	r.Temperature = types.Ptr(clamp(v, 0, 2))
	return r
}

// WithTopP sets nucleus sampling, clamped to [0,1]
func (r *EditRequest) WithTopP(v float64) *EditRequest {
	r.TopP = types.Ptr(clamp(v, 0, 1))
	return r
}

// Text returns the first edited text, or an empty string
func (r *EditResponse) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Text
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// Edit returns an edited version of the input following the instruction
func (c *Client) Edit(ctx context.Context, req *EditRequest) (*EditResponse, error) {
	return PostJSON[EditResponse](ctx, c, req)
}
