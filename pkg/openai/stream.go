package openai

import (
	"context"
	"io"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	streamDone = "[DONE]"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// Send a JSON request and read server-sent events, decoding each one into
// T, until the stream ends or the done sentinel is received
func stream[T any](ctx context.Context, c *Client, req JSONRequest, fn func(*T) error) error {
	if err := validate(req); err != nil {
		return err
	}
	payload, err := client.NewJSONRequest(req)
	if err != nil {
		return err
	}

	callback := func(evt client.TextStreamEvent) error {
		data := strings.TrimSpace(evt.Data)
		if data == "" {
			return nil
		} else if data == streamDone {
			return io.EOF
		}
		var chunk T
		if err := evt.Json(&chunk); err != nil {
			return &DecodeError{Body: evt.Data, Err: err}
		}
		if fn == nil {
			return nil
		}
		return fn(&chunk)
	}

	// A non-nil out is required for the stream to be decoded
	var discard struct{}
	if err := c.DoWithContext(ctx, payload, &discard,
		client.OptPath(segments(req.Endpoint())...),
		client.OptReqHeader("Accept", client.ContentTypeTextStream),
		client.OptTextStreamCallback(callback),
		client.OptNoTimeout(),
	); err != nil {
		return mapError(err)
	}

	// Return success
	return nil
}
