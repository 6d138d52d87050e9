package openai

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	// Packages
	gomultipart "github.com/mutablelogic/go-client/pkg/multipart"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// ImageSize is the width and height of a generated image
type ImageSize string

// ImageRequest generates images from a prompt
type ImageRequest struct {
	Prompt         string    `json:"prompt"`
	N              uint64    `json:"n,omitempty"`
	Size           ImageSize `json:"size,omitempty"`
	ResponseFormat string    `json:"response_format,omitempty"`
	User           string    `json:"user,omitempty"`
}

// ImageEditRequest edits a local image, with an optional mask, following
// a prompt
type ImageEditRequest struct {
	Image          string
	Mask           string
	Prompt         string
	N              uint64
	Size           ImageSize
	ResponseFormat string
	User           string
}

// ImageVariationRequest generates variations of a local image
type ImageVariationRequest struct {
	Image          string
	N              uint64
	Size           ImageSize
	ResponseFormat string
	User           string
}

// ImageResponse is the response from the image endpoints
type ImageResponse struct {
	Created uint64      `json:"created"`
	Data    []ImageData `json:"data"`
}

// ImageData is either the URL of a generated image, or the image itself
// encoded as base64
type ImageData struct {
	Url           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

type imageEditForm struct {
	Image          gomultipart.File `json:"image"`
	Prompt         string           `json:"prompt"`
	N              string           `json:"n,omitempty"`
	Size           string           `json:"size,omitempty"`
	ResponseFormat string           `json:"response_format,omitempty"`
	User           string           `json:"user,omitempty"`
}

type imageEditMaskForm struct {
	Image          gomultipart.File `json:"image"`
	Mask           gomultipart.File `json:"mask"`
	Prompt         string           `json:"prompt"`
	N              string           `json:"n,omitempty"`
	Size           string           `json:"size,omitempty"`
	ResponseFormat string           `json:"response_format,omitempty"`
	User           string           `json:"user,omitempty"`
}

type imageVariationForm struct {
	Image          gomultipart.File `json:"image"`
	N              string           `json:"n,omitempty"`
	Size           string           `json:"size,omitempty"`
	ResponseFormat string           `json:"response_format,omitempty"`
	User           string           `json:"user,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ImageSize256  ImageSize = "256x256"
	ImageSize512  ImageSize = "512x512"
	ImageSize1024 ImageSize = "1024x1024"
)

const (
	ImageFormatURL    = "url"
	ImageFormatBase64 = "b64_json"
)

const (
	endpointImageGeneration = "images/generations"
	endpointImageEdit       = "images/edits"
	endpointImageVariation  = "images/variations"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewImageRequest returns a request to generate images from a prompt
func NewImageRequest(prompt string) *ImageRequest {
	return &ImageRequest{Prompt: prompt}
}

// NewImageEditRequest returns a request to edit the image at path. It
// returns ErrNotFound if the image does not exist.
func NewImageEditRequest(image, prompt string) (*ImageEditRequest, error) {
	if err := checkFile(image); err != nil {
		return nil, err
	}
	return &ImageEditRequest{
		Image:  image,
		Prompt: prompt,
	}, nil
}

// NewImageVariationRequest returns a request for variations of the image
// at path. It returns ErrNotFound if the image does not exist.
func NewImageVariationRequest(image string) (*ImageVariationRequest, error) {
	if err := checkFile(image); err != nil {
		return nil, err
	}
	return &ImageVariationRequest{
		Image: image,
	}, nil
}

// ParseImageSize returns an image size from a string such as "512x512"
func ParseImageSize(v string) (ImageSize, error) {
	switch size := ImageSize(v); size {
	case ImageSize256, ImageSize512, ImageSize1024:
		return size, nil
	default:
		return "", ErrBadParameter.Withf("invalid image size %q", v)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - GENERATION

func (r *ImageRequest) Endpoint() string {
	return endpointImageGeneration
}

func (r *ImageRequest) Validate() error {
	if r.Prompt == "" {
		return ErrBadParameter.With("missing prompt")
	}
	return nil
}

func (r *ImageRequest) WithN(n uint64) *ImageRequest {
	r.N = n
	return r
}

func (r *ImageRequest) WithSize(size ImageSize) *ImageRequest {
	r.Size = size
	return r
}

// WithResponseFormat sets "url" or "b64_json"
func (r *ImageRequest) WithResponseFormat(format string) *ImageRequest {
	r.ResponseFormat = format
	return r
}

func (r *ImageRequest) WithUser(user string) *ImageRequest {
	r.User = user
	return r
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - EDIT

func (r *ImageEditRequest) Endpoint() string {
	return endpointImageEdit
}

func (r *ImageEditRequest) Validate() error {
	if r.Prompt == "" {
		return ErrBadParameter.With("missing prompt")
	}
	return nil
}

// WithMask sets a mask image whose transparent areas are edited. It
// returns ErrNotFound if the mask does not exist.
func (r *ImageEditRequest) WithMask(mask string) (*ImageEditRequest, error) {
	if err := checkFile(mask); err != nil {
		return nil, err
	}
	r.Mask = mask
	return r, nil
}

func (r *ImageEditRequest) WithN(n uint64) *ImageEditRequest {
	r.N = n
	return r
}

func (r *ImageEditRequest) WithSize(size ImageSize) *ImageEditRequest {
	r.Size = size
	return r
}

func (r *ImageEditRequest) WithResponseFormat(format string) *ImageEditRequest {
	r.ResponseFormat = format
	return r
}

func (r *ImageEditRequest) WithUser(user string) *ImageEditRequest {
	r.User = user
	return r
}

func (r *ImageEditRequest) Form() (any, io.Closer, error) {
	image, err := openFile(r.Image)
	if err != nil {
		return nil, nil, err
	}
	form := imageEditForm{
		Image:          gomultipart.File{Path: filepath.Base(r.Image), Body: image},
		Prompt:         r.Prompt,
		N:              formUint(r.N),
		Size:           string(r.Size),
		ResponseFormat: r.ResponseFormat,
		User:           r.User,
	}
	if r.Mask == "" {
		return form, files{image}, nil
	}

	// Add the mask
	mask, err := openFile(r.Mask)
	if err != nil {
		image.Close()
		return nil, nil, err
	}
	return imageEditMaskForm{
		Image:          form.Image,
		Mask:           gomultipart.File{Path: filepath.Base(r.Mask), Body: mask},
		Prompt:         form.Prompt,
		N:              form.N,
		Size:           form.Size,
		ResponseFormat: form.ResponseFormat,
		User:           form.User,
	}, files{image, mask}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - VARIATION

func (r *ImageVariationRequest) Endpoint() string {
	return endpointImageVariation
}

func (r *ImageVariationRequest) WithN(n uint64) *ImageVariationRequest {
	r.N = n
	return r
}

func (r *ImageVariationRequest) WithSize(size ImageSize) *ImageVariationRequest {
	r.Size = size
	return r
}

func (r *ImageVariationRequest) WithResponseFormat(format string) *ImageVariationRequest {
	r.ResponseFormat = format
	return r
}

func (r *ImageVariationRequest) WithUser(user string) *ImageVariationRequest {
	r.User = user
	return r
}

func (r *ImageVariationRequest) Form() (any, io.Closer, error) {
	image, err := openFile(r.Image)
	if err != nil {
		return nil, nil, err
	}
	return imageVariationForm{
		Image:          gomultipart.File{Path: filepath.Base(r.Image), Body: image},
		N:              formUint(r.N),
		Size:           string(r.Size),
		ResponseFormat: r.ResponseFormat,
		User:           r.User,
	}, files{image}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - RESPONSE

// Bytes returns the image data when the response format was b64_json
func (d ImageData) Bytes() ([]byte, error) {
	if d.B64JSON == "" {
		return nil, ErrNotFound.With("no image data")
	}
	data, err := base64.StdEncoding.DecodeString(d.B64JSON)
	if err != nil {
		return nil, &DecodeError{Body: d.B64JSON, Err: err}
	}
	return data, nil
}

// ContentType returns the mimetype of decoded image data
func (d ImageData) ContentType() string {
	data, err := d.Bytes()
	if err != nil {
		return ""
	}
	return http.DetectContentType(data)
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// CreateImage generates images from a prompt
func (c *Client) CreateImage(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	return PostJSON[ImageResponse](ctx, c, req)
}

// EditImage edits an image following a prompt
func (c *Client) EditImage(ctx context.Context, req *ImageEditRequest) (*ImageResponse, error) {
	return PostForm[ImageResponse](ctx, c, req)
}

// ImageVariation generates variations of an image
func (c *Client) ImageVariation(ctx context.Context, req *ImageVariationRequest) (*ImageResponse, error) {
	return PostForm[ImageResponse](ctx, c, req)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// Return an unsigned integer as a form value, or empty if zero
func formUint(v uint64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatUint(v, 10)
}
