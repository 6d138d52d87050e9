package openai

import (
	"encoding/json"
	"io"
	"net/http"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// unmarshaler is implemented by responses which decode their own body
type unmarshaler interface {
	Unmarshal(header http.Header, body io.Reader) error
}

// jsonResponse decodes a JSON body, keeping the body on failure
type jsonResponse[T any] struct {
	v *T
}

// streamResponse copies the body to a writer
type streamResponse struct {
	w io.Writer
	n int64
}

// DeleteResponse is returned when a resource is deleted
type DeleteResponse struct {
	Id      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Usage is the token accounting returned with generated text
type Usage struct {
	PromptTokens     uint64 `json:"prompt_tokens"`
	CompletionTokens uint64 `json:"completion_tokens,omitempty"`
	TotalTokens      uint64 `json:"total_tokens"`
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r DeleteResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

///////////////////////////////////////////////////////////////////////////////
// UNMARSHALER

func (r *jsonResponse[T]) Unmarshal(header http.Header, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, r.v); err != nil {
		return &DecodeError{Body: string(data), Err: err}
	}
	return nil
}

func (r *streamResponse) Unmarshal(header http.Header, body io.Reader) error {
	n, err := io.Copy(r.w, body)
	r.n += n
	return err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// Return the value to pass to the HTTP client for decoding into v
func decoderFor[T any](v *T) any {
	if u, ok := any(v).(unmarshaler); ok {
		return u
	}
	return &jsonResponse[T]{v}
}
