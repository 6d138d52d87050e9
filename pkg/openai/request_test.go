package openai_test

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	assert "github.com/stretchr/testify/assert"
)

// jobRequest is a request type defined outside the package
type jobRequest struct {
	Name string `json:"name"`
}

func (jobRequest) Endpoint() string {
	return "/jobs/run"
}

type jobResponse struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

func Test_request_001(t *testing.T) {
	// Generic dispatch joins the base URL and the endpoint
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/jobs/run", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		assert.Equal("nightly", decodeBody(t, r)["name"])
		writeJSON(w, http.StatusOK, map[string]any{"id": "job-1", "status": "queued"})
	})
	mux.HandleFunc("/v1/jobs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{"id": "job-1", "status": "done"})
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	response, err := openai.PostJSON[jobResponse](context.TODO(), c, jobRequest{Name: "nightly"})
	if assert.NoError(err) {
		assert.Equal(jobResponse{Id: "job-1", Status: "queued"}, *response)
	}

	response, err = openai.Get[jobResponse](context.TODO(), c, "jobs")
	if assert.NoError(err) {
		assert.Equal("done", response.Status)
	}
}

func Test_request_002(t *testing.T) {
	// By-identifier requests place the identifier between prefix and suffix
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/fine-tunes/ft-AF1WoRqd3aJAHsqc9NY7iL8F/cancel", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodPost, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "ft-AF1WoRqd3aJAHsqc9NY7iL8F",
			"object": "fine-tune",
			"model":  "curie",
			"status": "cancelled",
		})
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	fineTune, err := c.CancelFineTune(context.TODO(), "ft-AF1WoRqd3aJAHsqc9NY7iL8F")
	if assert.NoError(err) {
		assert.Equal(openai.FineTuneStatusCancelled, fineTune.Status)
		assert.Nil(fineTune.FineTunedModel)
	}
}

func Test_request_003(t *testing.T) {
	// Identifiers which are empty or span path segments are rejected locally
	assert := assert.New(t)
	srv := newMockServer(t, http.NewServeMux())
	c := newClient(t, srv.URL)

	_, err := c.GetFile(context.TODO(), "")
	assert.ErrorIs(err, openai.ErrBadParameter)
	_, err = c.DeleteModel(context.TODO(), "../files")
	assert.ErrorIs(err, openai.ErrBadParameter)
	_, err = c.DownloadFile(context.TODO(), "a?b", new(bytes.Buffer))
	assert.ErrorIs(err, openai.ErrBadParameter)

	// Dot segments would resolve to a different resource
	_, err = c.DeleteModel(context.TODO(), "..")
	assert.ErrorIs(err, openai.ErrBadParameter)
	_, err = c.DeleteFile(context.TODO(), ".")
	assert.ErrorIs(err, openai.ErrBadParameter)
	_, err = c.DeleteFile(context.TODO(), "..")
	assert.ErrorIs(err, openai.ErrBadParameter)
	assert.Equal(int32(0), srv.hits.Load())
}

func Test_request_004(t *testing.T) {
	// Download streams the body into a writer
	assert := assert.New(t)
	content := []byte("{\"prompt\": \"a\", \"completion\": \"b\"}\n")
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/files/file-abc/content", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(content)
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	var buf bytes.Buffer
	n, err := c.DownloadFile(context.TODO(), "file-abc", &buf)
	if assert.NoError(err) {
		assert.Equal(int64(len(content)), n)
		assert.Equal(content, buf.Bytes())
	}

	// And into a file
	path := filepath.Join(t.TempDir(), "out.jsonl")
	n, err = c.DownloadToFile(context.TODO(), openai.File{Id: "file-abc"}.DownloadRequest(), path)
	if assert.NoError(err) {
		assert.Equal(int64(len(content)), n)
		data, err := os.ReadFile(path)
		assert.NoError(err)
		assert.Equal(content, data)
	}
}

func Test_request_005(t *testing.T) {
	// A failed download does not leave a file behind
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/files/file-missing/content", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"message": "No such File object: file-missing", "type": "invalid_request_error", "param": "id"},
		})
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	path := filepath.Join(t.TempDir(), "out.jsonl")
	_, err := c.DownloadToFile(context.TODO(), openai.FileDownloadRequest{Id: "file-missing"}, path)
	var apiErr *openai.APIError
	if assert.ErrorAs(err, &apiErr) {
		assert.Equal(http.StatusNotFound, apiErr.Status)
	}
	_, err = os.Stat(path)
	assert.True(os.IsNotExist(err))
}

func Test_request_006(t *testing.T) {
	// Deleting by identifier returns the deletion status
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/curie:ft-acmeco-2021-03-03-21-44-20", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{"id": "curie:ft-acmeco-2021-03-03-21-44-20", "object": "model", "deleted": true})
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	response, err := c.DeleteModel(context.TODO(), "curie:ft-acmeco-2021-03-03-21-44-20")
	if assert.NoError(err) {
		assert.Equal(openai.DeleteResponse{Id: "curie:ft-acmeco-2021-03-03-21-44-20", Object: "model", Deleted: true}, *response)
	}
}
