package openai

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	// Packages
	gomultipart "github.com/mutablelogic/go-client/pkg/multipart"
	types "github.com/mutablelogic/go-server/pkg/types"
	language "golang.org/x/text/language"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// AudioFormat is the format of a transcription or translation
type AudioFormat string

// TranscriptionRequest transcribes a local audio file into the input
// language
type TranscriptionRequest struct {
	audioRequest
	Language language.Base
}

// TranslationRequest translates a local audio file into English
type TranslationRequest struct {
	audioRequest
}

// AudioResponse is the text of a transcription or translation. The
// verbose_json format also sets the language, duration and segments.
type AudioResponse struct {
	Task     string         `json:"task,omitempty"`
	Language string         `json:"language,omitempty"`
	Duration float64        `json:"duration,omitempty"`
	Text     string         `json:"text"`
	Segments []AudioSegment `json:"segments,omitempty"`
}

// AudioSegment is a timed part of a verbose transcription
type AudioSegment struct {
	Id               uint64   `json:"id"`
	Seek             uint64   `json:"seek"`
	Start            float64  `json:"start"`
	End              float64  `json:"end"`
	Text             string   `json:"text"`
	Tokens           []uint64 `json:"tokens,omitempty"`
	Temperature      float64  `json:"temperature"`
	AvgLogprob       float64  `json:"avg_logprob"`
	CompressionRatio float64  `json:"compression_ratio"`
	NoSpeechProb     float64  `json:"no_speech_prob"`
}

type audioRequest struct {
	File           string
	Model          string
	Prompt         string
	ResponseFormat AudioFormat
	Temperature    *float64
}

type audioForm struct {
	File           gomultipart.File `json:"file"`
	Model          string           `json:"model"`
	Prompt         string           `json:"prompt,omitempty"`
	ResponseFormat string           `json:"response_format,omitempty"`
	Temperature    string           `json:"temperature,omitempty"`
	Language       string           `json:"language,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	AudioFormatJSON        AudioFormat = "json"
	AudioFormatText        AudioFormat = "text"
	AudioFormatSRT         AudioFormat = "srt"
	AudioFormatVerboseJSON AudioFormat = "verbose_json"
	AudioFormatVTT         AudioFormat = "vtt"
)

const (
	defaultAudioModel      = "whisper-1"
	endpointTranscriptions = "audio/transcriptions"
	endpointTranslations   = "audio/translations"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTranscriptionRequest returns a request to transcribe the audio file
// at path. It returns ErrNotFound if the file does not exist.
func NewTranscriptionRequest(path string) (*TranscriptionRequest, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	return &TranscriptionRequest{
		audioRequest: audioRequest{File: path, Model: defaultAudioModel},
	}, nil
}

// NewTranslationRequest returns a request to translate the audio file at
// path. It returns ErrNotFound if the file does not exist.
func NewTranslationRequest(path string) (*TranslationRequest, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	return &TranslationRequest{
		audioRequest: audioRequest{File: path, Model: defaultAudioModel},
	}, nil
}

// ParseAudioFormat returns an audio format from a string
func ParseAudioFormat(v string) (AudioFormat, error) {
	switch format := AudioFormat(v); format {
	case AudioFormatJSON, AudioFormatText, AudioFormatSRT, AudioFormatVerboseJSON, AudioFormatVTT:
		return format, nil
	default:
		return "", ErrBadParameter.Withf("invalid audio format %q", v)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - TRANSCRIPTION

func (r *TranscriptionRequest) Endpoint() string {
	return endpointTranscriptions
}

func (r *TranscriptionRequest) Validate() error {
	return r.audioRequest.validate()
}

func (r *TranscriptionRequest) Form() (any, io.Closer, error) {
	var lang string
	if r.Language != (language.Base{}) {
		lang = r.Language.String()
	}
	return r.audioRequest.form(lang)
}

func (r *TranscriptionRequest) WithModel(model string) *TranscriptionRequest {
	r.Model = model
	return r
}

// WithPrompt sets text to guide the style or continue a previous segment
func (r *TranscriptionRequest) WithPrompt(prompt string) *TranscriptionRequest {
	r.Prompt = prompt
	return r
}

func (r *TranscriptionRequest) WithResponseFormat(format AudioFormat) *TranscriptionRequest {
	r.ResponseFormat = format
	return r
}

// WithTemperature sets the sampling temperature, clamped to [0,1]
func (r *TranscriptionRequest) WithTemperature(v float64) *TranscriptionRequest {
	r.Temperature = types.Ptr(clamp(v, 0, 1))
	return r
}

// WithLanguage sets the ISO-639-1 language of the input audio
func (r *TranscriptionRequest) WithLanguage(lang language.Base) *TranscriptionRequest {
	r.Language = lang
	return r
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - TRANSLATION

func (r *TranslationRequest) Endpoint() string {
	return endpointTranslations
}

func (r *TranslationRequest) Validate() error {
	return r.audioRequest.validate()
}

func (r *TranslationRequest) Form() (any, io.Closer, error) {
	return r.audioRequest.form("")
}

func (r *TranslationRequest) WithModel(model string) *TranslationRequest {
	r.Model = model
	return r
}

func (r *TranslationRequest) WithPrompt(prompt string) *TranslationRequest {
	r.Prompt = prompt
	return r
}

func (r *TranslationRequest) WithResponseFormat(format AudioFormat) *TranslationRequest {
	r.ResponseFormat = format
	return r
}

// WithTemperature sets the sampling temperature, clamped to [0,1]
func (r *TranslationRequest) WithTemperature(v float64) *TranslationRequest {
	r.Temperature = types.Ptr(clamp(v, 0, 1))
	return r
}

///////////////////////////////////////////////////////////////////////////////
// UNMARSHALER

// Unmarshal decodes JSON responses, and keeps any other format as text
func (r *AudioResponse) Unmarshal(header http.Header, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	// Plain text, SRT and VTT
	if mimetype, _, err := mime.ParseMediaType(header.Get("Content-Type")); err != nil || mimetype != "application/json" {
		r.Text = strings.TrimRight(string(data), "\n")
		return nil
	}

	// JSON and verbose JSON
	if err := json.Unmarshal(data, r); err != nil {
		return &DecodeError{Body: string(data), Err: err}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// API CALLS

// Transcribe returns the text of an audio file in its own language
func (c *Client) Transcribe(ctx context.Context, req *TranscriptionRequest) (*AudioResponse, error) {
	return PostForm[AudioResponse](ctx, c, req)
}

// Translate returns the text of an audio file in English
func (c *Client) Translate(ctx context.Context, req *TranslationRequest) (*AudioResponse, error) {
	return PostForm[AudioResponse](ctx, c, req)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r *audioRequest) validate() error {
	if r.Model == "" {
		return ErrBadParameter.With("missing model")
	}
	return nil
}

func (r *audioRequest) form(lang string) (any, io.Closer, error) {
	f, err := openFile(r.File)
	if err != nil {
		return nil, nil, err
	}
	form := audioForm{
		File:           gomultipart.File{Path: filepath.Base(r.File), Body: f},
		Model:          r.Model,
		Prompt:         r.Prompt,
		ResponseFormat: string(r.ResponseFormat),
		Language:       lang,
	}
	if r.Temperature != nil {
		form.Temperature = strconv.FormatFloat(*r.Temperature, 'f', -1, 64)
	}
	return form, files{f}, nil
}
