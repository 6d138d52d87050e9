package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	// Packages
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrBadParameter
	ErrConversion
	ErrUnexpectedResponse
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Err is a local error code, raised before any request is sent
type Err int

// ErrorDetail is the error object the API returns in a non-2xx body
type ErrorDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param,omitempty"`
	Code    *string `json:"code,omitempty"`
}

// APIError is returned when the API responds with a non-2xx status. Detail
// is set when the body was the documented error object, otherwise Body
// carries whatever text was returned.
type APIError struct {
	Status int          `json:"status"`
	Detail *ErrorDetail `json:"error,omitempty"`
	Body   string       `json:"body,omitempty"`
}

// DecodeError is returned when a 2xx body cannot be decoded into the
// expected response
type DecodeError struct {
	Body string
	Err  error
}

// TransportError wraps a failure of the HTTP stack: connection, TLS,
// timeout or context cancellation
type TransportError struct {
	Err error
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrConversion:
		return "conversion error"
	case ErrUnexpectedResponse:
		return "unexpected response"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

func (e ErrorDetail) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	switch {
	case e.Param != nil && e.Code != nil:
		fmt.Fprintf(&buf, ", param:%s, code: %s", *e.Param, *e.Code)
	case e.Param != nil:
		fmt.Fprintf(&buf, ", param:%s", *e.Param)
	case e.Code != nil:
		fmt.Fprintf(&buf, ", code:%s", *e.Code)
	}
	return buf.String()
}

func (e *APIError) Error() string {
	if e.Detail != nil {
		return e.Detail.Error()
	}
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v: %s", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// mapError sorts an error returned from the HTTP client into the remote API
// or transport category. Errors which are already typed pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	// Already classified
	var apiErr *APIError
	var decodeErr *DecodeError
	var localErr Err
	if errors.As(err, &apiErr) || errors.As(err, &decodeErr) || errors.As(err, &localErr) {
		return err
	}

	// Non-2xx status from the remote side
	var httpErr httpresponse.Err
	if errors.As(err, &httpErr) {
		return newAPIError(int(httpErr), err.Error())
	}
	var respErr httpresponse.ErrResponse
	if errors.As(err, &respErr) {
		return newAPIError(int(respErr.Code), err.Error())
	}

	// Anything else came from the transport
	return &TransportError{Err: err}
}

// newAPIError extracts the documented error object from the text of a
// failed response, if there is one
func newAPIError(status int, text string) *APIError {
	result := &APIError{Status: status, Body: text}
	if i := strings.IndexByte(text, '{'); i >= 0 {
		var body struct {
			Error *ErrorDetail `json:"error"`
		}
		if err := json.NewDecoder(bytes.NewReader([]byte(text[i:]))).Decode(&body); err == nil && body.Error != nil && body.Error.Message != "" {
			result.Detail = body.Error
			result.Body = strings.TrimSpace(text[i:])
		}
	}
	return result
}
