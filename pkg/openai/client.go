/*
openai implements a typed API client for OpenAI
https://platform.openai.com/docs/api-reference

Each endpoint has a request value, built with a constructor and chained
With* setters, and a response value. Requests are sent with the methods on
Client, or with the generic PostJSON, PostForm, Get and ByID functions for
request types defined outside this package.
*/
package openai

import (
	// Packages
	client "github.com/mutablelogic/go-client"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client binds an API key and a base URL to a pooled HTTP client. It is
// safe for concurrent use.
type Client struct {
	*client.Client
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint           = "https://api.openai.com/v1"
	headerOrganization = "OpenAI-Organization"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Create a new client with the default endpoint. A client.OptEndpoint
// option overrides the endpoint; the only error returned is for an
// endpoint which cannot be parsed.
func New(ApiKey string, opts ...client.ClientOpt) (*Client, error) {
	opts = append([]client.ClientOpt{
		client.OptEndpoint(endPoint),
		client.OptReqToken(client.Token{
			Scheme: client.Bearer,
			Value:  ApiKey,
		}),
	}, opts...)
	client, err := client.New(opts...)
	if err != nil {
		return nil, err
	}

	// Return the client
	return &Client{client}, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithOrganization sets the organization header on every request
func WithOrganization(org string) client.ClientOpt {
	return client.OptHeader(headerOrganization, org)
}
