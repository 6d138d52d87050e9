package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	// Packages
	gomultipart "github.com/mutablelogic/go-client/pkg/multipart"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// File is the metadata for an uploaded file
type File struct {
	Id        string `json:"id"`
	Object    string `json:"object"`
	Bytes     uint64 `json:"bytes"`
	CreatedAt uint64 `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
	Status    string `json:"status,omitempty"`
}

// FileList is the response from listing files
type FileList struct {
	Object string `json:"object"`
	Data   []File `json:"data"`
}

// FileUploadRequest uploads a local file
type FileUploadRequest struct {
	Path    string
	Purpose string
}

// FileInfoRequest returns the metadata for a file
type FileInfoRequest struct {
	Id string
}

// FileDeleteRequest deletes a file
type FileDeleteRequest struct {
	Id string
}

// FileDownloadRequest returns the content of a file
type FileDownloadRequest struct {
	Id string
}

type fileUploadForm struct {
	File    gomultipart.File `json:"file"`
	Purpose string           `json:"purpose"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	PurposeFineTune = "fine-tune"
	PurposeAnswers  = "answers"
	PurposeSearch   = "search"
	PurposeClassify = "classifications"
	endpointFiles   = "files"
	suffixContent   = "content"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFileUploadRequest returns a request to upload the file at path. It
// returns ErrNotFound if the file does not exist.
func NewFileUploadRequest(path, purpose string) (*FileUploadRequest, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	return &FileUploadRequest{
		Path:    path,
		Purpose: purpose,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (f File) String() string {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - REQUESTS

func (r *FileUploadRequest) Endpoint() string {
	return endpointFiles
}

func (r *FileUploadRequest) Validate() error {
	if r.Purpose == "" {
		return ErrBadParameter.With("missing purpose")
	}
	return nil
}

func (r *FileUploadRequest) Form() (any, io.Closer, error) {
	f, err := openFile(r.Path)
	if err != nil {
		return nil, nil, err
	}
	return fileUploadForm{
		File: gomultipart.File{
			Path: filepath.Base(r.Path),
			Body: f,
		},
		Purpose: r.Purpose,
	}, files{f}, nil
}

func (r FileInfoRequest) Method() string {
	return http.MethodGet
}

func (r FileInfoRequest) ID() string {
	return r.Id
}

func (r FileInfoRequest) Endpoint() (string, string) {
	return endpointFiles, ""
}

func (r FileDeleteRequest) Method() string {
	return http.MethodDelete
}

func (r FileDeleteRequest) ID() string {
	return r.Id
}

func (r FileDeleteRequest) Endpoint() (string, string) {
	return endpointFiles, ""
}

func (r FileDownloadRequest) Method() string {
	return http.MethodGet
}

func (r FileDownloadRequest) ID() string {
	return r.Id
}

func (r FileDownloadRequest) Endpoint() (string, string) {
	return endpointFiles, suffixContent
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - CONVERSIONS

func (f File) InfoRequest() FileInfoRequest {
	return FileInfoRequest{Id: f.Id}
}

func (f File) DeleteRequest() FileDeleteRequest {
	return FileDeleteRequest{Id: f.Id}
}

func (f File) DownloadRequest() FileDownloadRequest {
	return FileDownloadRequest{Id: f.Id}
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// ListFiles returns the files which belong to the organization
func (c *Client) ListFiles(ctx context.Context) ([]File, error) {
	response, err := Get[FileList](ctx, c, endpointFiles)
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

// UploadFile uploads a file, for example to use for fine-tuning
func (c *Client) UploadFile(ctx context.Context, req *FileUploadRequest) (*File, error) {
	return PostForm[File](ctx, c, req)
}

// GetFile returns the metadata for a file
func (c *Client) GetFile(ctx context.Context, id string) (*File, error) {
	return ByID[File](ctx, c, FileInfoRequest{Id: id})
}

// DeleteFile deletes a file
func (c *Client) DeleteFile(ctx context.Context, id string) (*DeleteResponse, error) {
	return ByID[DeleteResponse](ctx, c, FileDeleteRequest{Id: id})
}

// DownloadFile writes the content of a file to w and returns the number
// of bytes written
func (c *Client) DownloadFile(ctx context.Context, id string, w io.Writer) (int64, error) {
	return c.Download(ctx, FileDownloadRequest{Id: id}, w)
}
