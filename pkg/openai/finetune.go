package openai

import (
	"context"
	"encoding/json"
	"net/http"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// FineTuneRequest creates a fine-tune job from an uploaded training file
type FineTuneRequest struct {
	TrainingFile                 string    `json:"training_file"`
	ValidationFile               string    `json:"validation_file,omitempty"`
	Model                        string    `json:"model,omitempty"`
	Epochs                       *uint64   `json:"n_epochs,omitempty"`
	BatchSize                    *uint64   `json:"batch_size,omitempty"`
	LearningRateMultiplier       *float64  `json:"learning_rate_multiplier,omitempty"`
	PromptLossWeight             *float64  `json:"prompt_loss_weight,omitempty"`
	ComputeClassificationMetrics *bool     `json:"compute_classification_metrics,omitempty"`
	ClassificationClasses        *uint64   `json:"classification_n_classes,omitempty"`
	ClassificationPositiveClass  string    `json:"classification_positive_class,omitempty"`
	ClassificationBetas          []float64 `json:"classification_betas,omitempty"`
	Suffix                       string    `json:"suffix,omitempty"`
}

// FineTune is a fine-tune job
type FineTune struct {
	Id              string          `json:"id"`
	Object          string          `json:"object"`
	Model           string          `json:"model"`
	CreatedAt       uint64          `json:"created_at"`
	Events          []FineTuneEvent `json:"events,omitempty"`
	FineTunedModel  *string         `json:"fine_tuned_model"`
	Hyperparams     Hyperparams     `json:"hyperparams"`
	OrganizationId  string          `json:"organization_id"`
	ResultFiles     []File          `json:"result_files"`
	Status          string          `json:"status"`
	ValidationFiles []File          `json:"validation_files"`
	TrainingFiles   []File          `json:"training_files"`
	UpdatedAt       uint64          `json:"updated_at"`
}

// Hyperparams are the parameters a fine-tune job was run with
type Hyperparams struct {
	BatchSize              *uint64  `json:"batch_size"`
	LearningRateMultiplier *float64 `json:"learning_rate_multiplier"`
	Epochs                 uint64   `json:"n_epochs"`
	PromptLossWeight       float64  `json:"prompt_loss_weight"`
}

// FineTuneEvent is a status update for a fine-tune job
type FineTuneEvent struct {
	Object    string `json:"object"`
	CreatedAt uint64 `json:"created_at"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// FineTuneList is the response from listing fine-tune jobs
type FineTuneList struct {
	Object string     `json:"object"`
	Data   []FineTune `json:"data"`
}

// FineTuneEventList is the response from listing fine-tune events
type FineTuneEventList struct {
	Object string          `json:"object"`
	Data   []FineTuneEvent `json:"data"`
}

// FineTuneGetRequest returns a fine-tune job
type FineTuneGetRequest struct {
	Id string
}

// FineTuneCancelRequest cancels a running fine-tune job
type FineTuneCancelRequest struct {
	Id string
}

// FineTuneEventsRequest returns the events for a fine-tune job
type FineTuneEventsRequest struct {
	Id string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endpointFineTunes = "fine-tunes"
	suffixCancel      = "cancel"
	suffixEvents      = "events"
)

const (
	FineTuneStatusPending   = "pending"
	FineTuneStatusRunning   = "running"
	FineTuneStatusSucceeded = "succeeded"
	FineTuneStatusFailed    = "failed"
	FineTuneStatusCancelled = "cancelled"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFineTuneRequest returns a request to fine-tune on the uploaded
// training file with the given identifier
func NewFineTuneRequest(trainingFile string) *FineTuneRequest {
	return &FineTuneRequest{
		TrainingFile: trainingFile,
	}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (f FineTune) String() string {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - REQUESTS

func (r *FineTuneRequest) Endpoint() string {
	return endpointFineTunes
}

func (r *FineTuneRequest) Validate() error {
	if r.TrainingFile == "" {
		return ErrBadParameter.With("missing training file")
	}
	return nil
}

func (r *FineTuneRequest) WithValidationFile(id string) *FineTuneRequest {
	r.ValidationFile = id
	return r
}

// WithModel sets the base model: ada, babbage, curie or davinci
func (r *FineTuneRequest) WithModel(model string) *FineTuneRequest {
	r.Model = model
	return r
}

func (r *FineTuneRequest) WithEpochs(n uint64) *FineTuneRequest {
	r.Epochs = types.Ptr(n)
	return r
}

func (r *FineTuneRequest) WithBatchSize(n uint64) *FineTuneRequest {
	r.BatchSize = types.Ptr(n)
	return r
}

func (r *FineTuneRequest) WithLearningRateMultiplier(v float64) *FineTuneRequest {
	r.LearningRateMultiplier = types.Ptr(v)
	return r
}

func (r *FineTuneRequest) WithPromptLossWeight(v float64) *FineTuneRequest {
	r.PromptLossWeight = types.Ptr(v)
	return r
}

func (r *FineTuneRequest) WithClassificationMetrics(v bool) *FineTuneRequest {
	r.ComputeClassificationMetrics = types.Ptr(v)
	return r
}

func (r *FineTuneRequest) WithClassificationClasses(n uint64) *FineTuneRequest {
	r.ClassificationClasses = types.Ptr(n)
	return r
}

func (r *FineTuneRequest) WithClassificationPositiveClass(class string) *FineTuneRequest {
	r.ClassificationPositiveClass = class
	return r
}

func (r *FineTuneRequest) WithClassificationBetas(betas ...float64) *FineTuneRequest {
	r.ClassificationBetas = betas
	return r
}

// WithSuffix sets a string of up to 40 characters added to the fine-tuned
// model name
func (r *FineTuneRequest) WithSuffix(suffix string) *FineTuneRequest {
	r.Suffix = suffix
	return r
}

func (r FineTuneGetRequest) Method() string {
	return http.MethodGet
}

func (r FineTuneGetRequest) ID() string {
	return r.Id
}

func (r FineTuneGetRequest) Endpoint() (string, string) {
	return endpointFineTunes, ""
}

func (r FineTuneCancelRequest) Method() string {
	return http.MethodPost
}

func (r FineTuneCancelRequest) ID() string {
	return r.Id
}

func (r FineTuneCancelRequest) Endpoint() (string, string) {
	return endpointFineTunes, suffixCancel
}

func (r FineTuneEventsRequest) Method() string {
	return http.MethodGet
}

func (r FineTuneEventsRequest) ID() string {
	return r.Id
}

func (r FineTuneEventsRequest) Endpoint() (string, string) {
	return endpointFineTunes, suffixEvents
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - CONVERSIONS

func (f FineTune) GetRequest() FineTuneGetRequest {
	return FineTuneGetRequest{Id: f.Id}
}

func (f FineTune) CancelRequest() FineTuneCancelRequest {
	return FineTuneCancelRequest{Id: f.Id}
}

func (f FineTune) EventsRequest() FineTuneEventsRequest {
	return FineTuneEventsRequest{Id: f.Id}
}

// ModelRequest returns a request for the fine-tuned model. It returns
// ErrConversion if the job has not produced a model.
func (f FineTune) ModelRequest() (ModelRequest, error) {
	if f.FineTunedModel == nil || *f.FineTunedModel == "" {
		return ModelRequest{}, ErrConversion.Withf("fine tune %q has no fine tuned model", f.Id)
	}
	return ModelRequest{Id: *f.FineTunedModel}, nil
}

// ModelDeleteRequest returns a request to delete the fine-tuned model. It
// returns ErrConversion if the job has not produced a model.
func (f FineTune) ModelDeleteRequest() (ModelDeleteRequest, error) {
	if f.FineTunedModel == nil || *f.FineTunedModel == "" {
		return ModelDeleteRequest{}, ErrConversion.Withf("fine tune %q has no fine tuned model", f.Id)
	}
	return ModelDeleteRequest{Id: *f.FineTunedModel}, nil
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// CreateFineTune starts a fine-tune job
func (c *Client) CreateFineTune(ctx context.Context, req *FineTuneRequest) (*FineTune, error) {
	return PostJSON[FineTune](ctx, c, req)
}

// ListFineTunes returns the fine-tune jobs for the organization
func (c *Client) ListFineTunes(ctx context.Context) ([]FineTune, error) {
	response, err := Get[FineTuneList](ctx, c, endpointFineTunes)
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetFineTune returns a fine-tune job, including its events
func (c *Client) GetFineTune(ctx context.Context, id string) (*FineTune, error) {
	return ByID[FineTune](ctx, c, FineTuneGetRequest{Id: id})
}

// CancelFineTune cancels a running fine-tune job
func (c *Client) CancelFineTune(ctx context.Context, id string) (*FineTune, error) {
	return ByID[FineTune](ctx, c, FineTuneCancelRequest{Id: id})
}

// FineTuneEvents returns the status updates for a fine-tune job
func (c *Client) FineTuneEvents(ctx context.Context, id string) ([]FineTuneEvent, error) {
	response, err := ByID[FineTuneEventList](ctx, c, FineTuneEventsRequest{Id: id})
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}
