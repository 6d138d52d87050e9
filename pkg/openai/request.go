package openai

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// JSONRequest is a request sent as a JSON body with POST to the endpoint
type JSONRequest interface {
	// Return the endpoint path, relative to the base URL
	Endpoint() string
}

// FormRequest is a request sent as multipart/form-data with POST. Form
// opens any local files and returns the payload with a closer for those
// files. A missing file is reported before any request is made.
type FormRequest interface {
	// Return the endpoint path, relative to the base URL
	Endpoint() string

	// Return the form payload and a closer for any opened files
	Form() (any, io.Closer, error)
}

// ByIDRequest is a request without a body, addressed by a resource
// identifier placed between a prefix and a suffix
type ByIDRequest interface {
	// Return the HTTP method
	Method() string

	// Return the resource identifier
	ID() string

	// Return the path before and after the identifier
	Endpoint() (string, string)
}

// validator is implemented by requests which check required fields
type validator interface {
	Validate() error
}

type files []*os.File

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// PostJSON sends a JSON request and decodes the response into T
func PostJSON[T any](ctx context.Context, c *Client, req JSONRequest) (*T, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return nil, err
	}
	return do[T](ctx, c, payload, client.OptPath(segments(req.Endpoint())...))
}

// PostForm sends a multipart request and decodes the response into T
func PostForm[T any](ctx context.Context, c *Client, req FormRequest) (*T, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	form, closer, err := req.Form()
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	payload, err := client.NewStreamingMultipartRequest(form, client.ContentTypeJson)
	if err != nil {
		return nil, err
	}
	return do[T](ctx, c, payload, client.OptPath(segments(req.Endpoint())...))
}

// Get sends a GET request to the endpoint and decodes the response into T
func Get[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	return do[T](ctx, c, client.MethodGet, client.OptPath(segments(endpoint)...))
}

// ByID sends a request addressed by identifier and decodes the response
// into T
func ByID[T any](ctx context.Context, c *Client, req ByIDRequest) (*T, error) {
	path, err := pathByID(req)
	if err != nil {
		return nil, err
	}
	return do[T](ctx, c, client.NewRequestEx(req.Method(), ""), client.OptPath(path...))
}

// Download streams the response body of a request addressed by
// identifier into w, and returns the number of bytes written
func (c *Client) Download(ctx context.Context, req ByIDRequest, w io.Writer) (int64, error) {
	path, err := pathByID(req)
	if err != nil {
		return 0, err
	}

	response := streamResponse{w: w}
	if err := c.DoWithContext(ctx, client.NewRequestEx(req.Method(), ""), &response, client.OptPath(path...), client.OptNoTimeout()); err != nil {
		return response.n, mapError(err)
	}

	// Return success
	return response.n, nil
}

// DownloadToFile streams the response body into a new file at path. The
// file is removed if the download fails.
func (c *Client) DownloadToFile(ctx context.Context, req ByIDRequest, path string) (int64, error) {
	// Check the identifier before creating anything
	if _, err := pathByID(req); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := c.Download(ctx, req, f)
	err = errors.Join(err, f.Close())
	if err != nil {
		os.Remove(path)
		return n, err
	}

	// Return success
	return n, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// Send a request and decode the response
func do[T any](ctx context.Context, c *Client, payload client.Payload, opts ...client.RequestOpt) (*T, error) {
	var response T
	if err := c.DoWithContext(ctx, payload, decoderFor(&response), opts...); err != nil {
		return nil, mapError(err)
	}

	// Return success
	return &response, nil
}

// Check required fields, if the request supports it
func validate(req any) error {
	if v, ok := req.(validator); ok {
		return v.Validate()
	}
	return nil
}

// Return the path segments for a request addressed by identifier
func pathByID(req ByIDRequest) ([]any, error) {
	id := req.ID()
	if id == "" {
		return nil, ErrBadParameter.With("missing identifier")
	} else if id == "." || id == ".." || url.PathEscape(id) != id {
		return nil, ErrBadParameter.Withf("invalid identifier %q", id)
	}
	prefix, suffix := req.Endpoint()
	path := append(segments(prefix), id)
	return append(path, segments(suffix)...), nil
}

// Split an endpoint into path segments
func segments(endpoint string) []any {
	endpoint = strings.Trim(endpoint, "/")
	if endpoint == "" {
		return nil
	}
	parts := strings.Split(endpoint, "/")
	result := make([]any, len(parts))
	for i, part := range parts {
		result[i] = part
	}
	return result
}

// Open a file for upload, returning ErrNotFound if it does not exist
func openFile(path string) (*os.File, error) {
	if path == "" {
		return nil, ErrBadParameter.With("missing file path")
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound.Withf("file does not exist: %q", path)
	} else if err != nil {
		return nil, err
	}
	return f, nil
}

// Check that a file exists and is not a directory
func checkFile(path string) error {
	if path == "" {
		return ErrBadParameter.With("missing file path")
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound.Withf("file does not exist: %q", path)
	} else if err != nil {
		return err
	} else if info.IsDir() {
		return ErrBadParameter.Withf("not a file: %q", path)
	}
	return nil
}

// Close all opened files
func (f files) Close() error {
	var result error
	for _, file := range f {
		result = errors.Join(result, file.Close())
	}
	return result
}

// Limit v to the range [lo,hi]
func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
