package openai

import (
	"context"
	"encoding/json"
	"net/http"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Model describes a model available to the API key
type Model struct {
	Id         string            `json:"id"`
	Object     string            `json:"object,omitempty"`
	Created    uint64            `json:"created,omitempty"`
	OwnedBy    string            `json:"owned_by,omitempty"`
	Permission []ModelPermission `json:"permission,omitempty"`
	Root       string            `json:"root,omitempty"`
	Parent     *string           `json:"parent,omitempty"`
}

// ModelPermission is an access rule attached to a model
type ModelPermission struct {
	Id                 string  `json:"id"`
	Object             string  `json:"object"`
	Created            uint64  `json:"created"`
	AllowCreateEngine  bool    `json:"allow_create_engine"`
	AllowSampling      bool    `json:"allow_sampling"`
	AllowLogprobs      bool    `json:"allow_logprobs"`
	AllowSearchIndices bool    `json:"allow_search_indices"`
	AllowView          bool    `json:"allow_view"`
	AllowFineTuning    bool    `json:"allow_fine_tuning"`
	Organization       string  `json:"organization"`
	Group              *string `json:"group"`
	IsBlocking         bool    `json:"is_blocking"`
}

// ModelList is the response from listing models
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// ModelRequest returns a model
type ModelRequest struct {
	Id string
}

// ModelDeleteRequest deletes a fine-tuned model
type ModelDeleteRequest struct {
	Id string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endpointModels = "models"
)

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Model) String() string {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (r ModelRequest) Method() string {
	return http.MethodGet
}

func (r ModelRequest) ID() string {
	return r.Id
}

func (r ModelRequest) Endpoint() (string, string) {
	return endpointModels, ""
}

func (r ModelDeleteRequest) Method() string {
	return http.MethodDelete
}

func (r ModelDeleteRequest) ID() string {
	return r.Id
}

func (r ModelDeleteRequest) Endpoint() (string, string) {
	return endpointModels, ""
}

func (m Model) Request() ModelRequest {
	return ModelRequest{Id: m.Id}
}

func (m Model) DeleteRequest() ModelDeleteRequest {
	return ModelDeleteRequest{Id: m.Id}
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// ListModels returns all the models
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	response, err := Get[ModelList](ctx, c, endpointModels)
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetModel returns one model
func (c *Client) GetModel(ctx context.Context, id string) (*Model, error) {
	return ByID[Model](ctx, c, ModelRequest{Id: id})
}

// DeleteModel deletes a fine-tuned model. You must have the Owner role in
// your organization to delete a model.
func (c *Client) DeleteModel(ctx context.Context, id string) (*DeleteResponse, error) {
	return ByID[DeleteResponse](ctx, c, ModelDeleteRequest{Id: id})
}
