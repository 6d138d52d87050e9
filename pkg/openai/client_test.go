package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	client "github.com/mutablelogic/go-client"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

const (
	testKey = "test-key"
)

var (
	apiKey string
)

func TestMain(m *testing.M) {
	apiKey = os.Getenv("OPENAI_API_KEY")
	os.Exit(m.Run())
}

// mockServer records the number of requests it has served
type mockServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newMockServer(t *testing.T, mux *http.ServeMux) *mockServer {
	t.Helper()
	srv := new(mockServer)
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.hits.Add(1)
		if auth := r.Header.Get("Authorization"); auth != "Bearer "+testKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{
					"message": "Incorrect API key provided",
					"type":    "invalid_request_error",
					"param":   nil,
					"code":    "invalid_api_key",
				},
			})
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url string, opts ...client.ClientOpt) *openai.Client {
	t.Helper()
	c, err := openai.New(testKey, append([]client.ClientOpt{client.OptEndpoint(url + "/v1")}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Error(err)
	}
	return body
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_client_001(t *testing.T) {
	// Creating a client does no I/O, so an empty key succeeds
	assert := assert.New(t)
	c, err := openai.New("")
	assert.NoError(err)
	assert.NotNil(c)
}

func Test_client_002(t *testing.T) {
	// Bearer token and organization header are sent on every request
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodGet, r.Method)
		assert.Equal("org-123", r.Header.Get("OpenAI-Organization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "gpt-3.5-turbo", "object": "model", "created": 1677610602, "owned_by": "openai"},
				{"id": "whisper-1", "object": "model", "created": 1677532384, "owned_by": "openai-internal"},
			},
		})
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL, openai.WithOrganization("org-123"))

	models, err := c.ListModels(context.TODO())
	if assert.NoError(err) {
		assert.Len(models, 2)
		assert.Equal("gpt-3.5-turbo", models[0].Id)
		assert.Equal("openai", models[0].OwnedBy)
		assert.Equal(uint64(1677610602), models[0].Created)
	}
}

func Test_client_003(t *testing.T) {
	// A structured error body is decoded into the error detail
	assert := assert.New(t)
	srv := newMockServer(t, http.NewServeMux())
	c, err := openai.New("wrong-key", client.OptEndpoint(srv.URL+"/v1"))
	if !assert.NoError(err) {
		t.FailNow()
	}

	_, err = c.ListModels(context.TODO())
	var apiErr *openai.APIError
	if assert.ErrorAs(err, &apiErr) {
		assert.Equal(http.StatusUnauthorized, apiErr.Status)
		if assert.NotNil(apiErr.Detail) {
			assert.Equal("Incorrect API key provided", apiErr.Detail.Message)
			assert.Equal("invalid_request_error", apiErr.Detail.Type)
			assert.Nil(apiErr.Detail.Param)
			if assert.NotNil(apiErr.Detail.Code) {
				assert.Equal("invalid_api_key", *apiErr.Detail.Code)
			}
		}
		assert.Equal("Incorrect API key provided, code:invalid_api_key", apiErr.Error())
	}
}

func Test_client_004(t *testing.T) {
	// An error body which is not the documented object is kept as text
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	_, err := c.ListModels(context.TODO())
	var apiErr *openai.APIError
	if assert.ErrorAs(err, &apiErr) {
		assert.Equal(http.StatusBadGateway, apiErr.Status)
		assert.Nil(apiErr.Detail)
		assert.Contains(apiErr.Body, "upstream unavailable")
	}
}

func Test_client_005(t *testing.T) {
	// A success body which cannot be decoded is attached to the error
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/gpt-3.5-turbo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": [1, 2, 3]}`))
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	_, err := c.GetModel(context.TODO(), "gpt-3.5-turbo")
	var decodeErr *openai.DecodeError
	if assert.ErrorAs(err, &decodeErr) {
		assert.Equal(`{"id": [1, 2, 3]}`, decodeErr.Body)
	}
}

func Test_client_006(t *testing.T) {
	// A server which cannot be reached is a transport error
	assert := assert.New(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := newClient(t, url)

	_, err := c.ListModels(context.TODO())
	var transportErr *openai.TransportError
	assert.ErrorAs(err, &transportErr)

	var apiErr *openai.APIError
	assert.False(errors.As(err, &apiErr))
}

func Test_client_007(t *testing.T) {
	// A cancelled context fails without reaching the server
	assert := assert.New(t)
	srv := newMockServer(t, http.NewServeMux())
	c := newClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListModels(ctx)
	assert.Error(err)
	assert.True(errors.Is(err, context.Canceled))
}

func Test_client_008(t *testing.T) {
	// Live API: one user message with the default model yields a choice
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping")
	}
	assert := assert.New(t)
	c, err := openai.New(apiKey)
	if !assert.NoError(err) {
		t.FailNow()
	}

	response, err := c.Chat(context.TODO(), openai.NewChatRequest(openai.NewMessage(openai.RoleUser, "hello!")))
	if assert.NoError(err) {
		assert.NotEmpty(response.Choices)
		t.Log(response)
	}
}

func Test_client_009(t *testing.T) {
	// An error body with a status code of its own is still a remote error
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"code": http.StatusTooManyRequests, "reason": "rate limited"})
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	_, err := c.ListModels(context.TODO())
	var apiErr *openai.APIError
	if assert.ErrorAs(err, &apiErr) {
		assert.Equal(http.StatusTooManyRequests, apiErr.Status)
	}
	var transportErr *openai.TransportError
	assert.False(errors.As(err, &transportErr))
}
