package openai

import (
	"context"
	"encoding/json"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// EmbeddingRequest is a request to /embeddings
type EmbeddingRequest struct {
	Model      string  `json:"model"`
	Input      Input   `json:"input"`
	Format     string  `json:"encoding_format,omitempty"`
	Dimensions *uint64 `json:"dimensions,omitempty"`
	User       string  `json:"user,omitempty"`
}

// Embeddings is the response from /embeddings
type Embeddings struct {
	Object string      `json:"object"`
	Model  string      `json:"model"`
	Data   []Embedding `json:"data"`
	Usage  Usage       `json:"usage"`
}

// Embedding is a single vector
type Embedding struct {
	Object string    `json:"object"`
	Index  uint64    `json:"index"`
	Vector []float64 `json:"embedding"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultEmbeddingModel = "text-embedding-ada-002"
	endpointEmbedding     = "embeddings"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewEmbeddingRequest returns an embedding request for the default model
func NewEmbeddingRequest(input ...string) *EmbeddingRequest {
	return NewEmbeddingRequestWithModel(defaultEmbeddingModel, input...)
}

// NewEmbeddingRequestWithModel returns an embedding request for a named
// model
func NewEmbeddingRequestWithModel(model string, input ...string) *EmbeddingRequest {
	return &EmbeddingRequest{
		Model: model,
		Input: NewInput(input...),
	}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (e Embeddings) String() string {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (r *EmbeddingRequest) Endpoint() string {
	return endpointEmbedding
}

func (r *EmbeddingRequest) Validate() error {
	if r.Model == "" {
		return ErrBadParameter.With("missing model")
	} else if len(r.Input) == 0 {
		return ErrBadParameter.With("missing input")
	}
	return nil
}

func (r *EmbeddingRequest) WithUser(user string) *EmbeddingRequest {
	r.User = user
	return r
}

// WithFormat sets the encoding of the returned vectors, "float" or "base64"
func (r *EmbeddingRequest) WithFormat(format string) *EmbeddingRequest {
	r.Format = format
	return r
}

// WithDimensions truncates the returned vectors, for models which support it
func (r *EmbeddingRequest) WithDimensions(n uint64) *EmbeddingRequest {
	r.Dimensions = types.Ptr(n)
	return r
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// Embedding returns one vector for each input
func (c *Client) Embedding(ctx context.Context, req *EmbeddingRequest) (*Embeddings, error) {
	return PostJSON[Embeddings](ctx, c, req)
}
