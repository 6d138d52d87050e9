package openai

import (
	"context"
	"slices"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ModerationRequest is a request to /moderations
type ModerationRequest struct {
	Input Input  `json:"input"`
	Model string `json:"model,omitempty"`
}

// ModerationResponse is the response from /moderations
type ModerationResponse struct {
	Id      string       `json:"id"`
	Model   string       `json:"model"`
	Results []Moderation `json:"results"`
}

// Moderation is the classification of one input
type Moderation struct {
	Categories     map[string]bool    `json:"categories"`
	CategoryScores map[string]float64 `json:"category_scores"`
	Flagged        bool               `json:"flagged"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ModelModerationStable = "text-moderation-stable"
	ModelModerationLatest = "text-moderation-latest"
	endpointModeration    = "moderations"
)

const (
	CategoryHate            = "hate"
	CategoryHateThreatening = "hate/threatening"
	CategorySelfHarm        = "self-harm"
	CategorySexual          = "sexual"
	CategorySexualMinors    = "sexual/minors"
	CategoryViolence        = "violence"
	CategoryViolenceGraphic = "violence/graphic"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewModerationRequest returns a request for the stable moderation model
func NewModerationRequest(input ...string) *ModerationRequest {
	return NewModerationRequestWithModel(ModelModerationStable, input...)
}

// NewModerationRequestWithModel returns a request for a named model
func NewModerationRequestWithModel(model string, input ...string) *ModerationRequest {
	return &ModerationRequest{
		Input: NewInput(input...),
		Model: model,
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (r *ModerationRequest) Endpoint() string {
	return endpointModeration
}

func (r *ModerationRequest) Validate() error {
	if len(r.Input) == 0 {
		return ErrBadParameter.With("missing input")
	}
	return nil
}

// FlaggedCategories returns the sorted names of the categories which were flagged
func (m Moderation) FlaggedCategories() []string {
	var result []string
	for category, flagged := range m.Categories {
		if flagged {
			result = append(result, category)
		}
	}
	slices.Sort(result)
	return result
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// Moderate classifies whether the input violates the content policy
func (c *Client) Moderate(ctx context.Context, req *ModerationRequest) (*ModerationResponse, error) {
	return PostJSON[ModerationResponse](ctx, c, req)
}
