package openai_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	assert "github.com/stretchr/testify/assert"
)

const (
	trainingData = "{\"prompt\": \"hello\", \"completion\": \"world\"}\n"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_file_001(t *testing.T) {
	// Uploading sends the file and purpose as multipart fields
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/files", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if !assert.NoError(r.ParseMultipartForm(1 << 20)) {
				http.Error(w, "bad form", http.StatusBadRequest)
				return
			}
			assert.Equal("fine-tune", r.FormValue("purpose"))
			f, _, err := r.FormFile("file")
			if assert.NoError(err) {
				data, err := io.ReadAll(f)
				assert.NoError(err)
				assert.Equal(trainingData, string(data))
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"id": "file-XjGxS3KTG0uNmNOK362iJua3", "object": "file", "bytes": len(trainingData),
				"created_at": 1613779121, "filename": "train.jsonl", "purpose": "fine-tune",
			})
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{
				"object": "list",
				"data": []map[string]any{{
					"id": "file-XjGxS3KTG0uNmNOK362iJua3", "object": "file", "bytes": len(trainingData),
					"created_at": 1613779121, "filename": "train.jsonl", "purpose": "fine-tune",
				}},
			})
		}
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	req, err := openai.NewFileUploadRequest(writeTemp(t, "train.jsonl", trainingData), openai.PurposeFineTune)
	if !assert.NoError(err) {
		t.FailNow()
	}
	file, err := c.UploadFile(context.TODO(), req)
	if assert.NoError(err) {
		assert.Equal("file-XjGxS3KTG0uNmNOK362iJua3", file.Id)
		assert.Equal(uint64(len(trainingData)), file.Bytes)
		assert.Equal("train.jsonl", file.Filename)
		assert.Equal(openai.PurposeFineTune, file.Purpose)
	}

	files, err := c.ListFiles(context.TODO())
	if assert.NoError(err) {
		assert.Len(files, 1)
	}
}

func Test_file_002(t *testing.T) {
	// A missing upload file fails before any request is made
	assert := assert.New(t)
	srv := newMockServer(t, http.NewServeMux())
	c := newClient(t, srv.URL)
	path := filepath.Join(t.TempDir(), "missing.jsonl")

	_, err := openai.NewFileUploadRequest(path, openai.PurposeFineTune)
	assert.ErrorIs(err, openai.ErrNotFound)

	// The file is also checked when the request is sent
	_, err = c.UploadFile(context.TODO(), &openai.FileUploadRequest{Path: path, Purpose: openai.PurposeFineTune})
	assert.ErrorIs(err, openai.ErrNotFound)
	assert.Equal(int32(0), srv.hits.Load())
}

func Test_file_003(t *testing.T) {
	// File metadata converts into requests which carry the identifier
	assert := assert.New(t)
	file := openai.File{Id: "file-abc"}

	for _, req := range []openai.ByIDRequest{file.InfoRequest(), file.DeleteRequest(), file.DownloadRequest()} {
		assert.Equal("file-abc", req.ID())
		prefix, _ := req.Endpoint()
		assert.Equal("files", prefix)
	}
	assert.Equal(http.MethodGet, file.InfoRequest().Method())
	assert.Equal(http.MethodDelete, file.DeleteRequest().Method())
	_, suffix := file.DownloadRequest().Endpoint()
	assert.Equal("content", suffix)
}

func Test_file_004(t *testing.T) {
	// Get and delete a file by identifier
	assert := assert.New(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/files/file-abc", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"id": "file-abc", "object": "file", "bytes": 140, "created_at": 1613779657, "filename": "mydata.jsonl", "purpose": "fine-tune"})
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]any{"id": "file-abc", "object": "file", "deleted": true})
		}
	})
	srv := newMockServer(t, mux)
	c := newClient(t, srv.URL)

	file, err := c.GetFile(context.TODO(), "file-abc")
	if assert.NoError(err) {
		assert.Equal("mydata.jsonl", file.Filename)
		assert.Equal(uint64(140), file.Bytes)
	}

	response, err := c.DeleteFile(context.TODO(), "file-abc")
	if assert.NoError(err) {
		assert.True(response.Deleted)
		assert.Equal("file-abc", response.Id)
		assert.Equal("file", response.Object)
	}
}
