package main

import (
	"fmt"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
	language "golang.org/x/text/language"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AudioCommands struct {
	Transcribe TranscribeCommand `cmd:"" name:"transcribe" help:"Transcribe audio into text." group:"AUDIO"`
	Translate  TranslateCommand  `cmd:"" name:"translate" help:"Translate audio into English text." group:"AUDIO"`
}

type AudioOptions struct {
	File        string   `arg:"" name:"file" help:"Audio file" type:"existingfile"`
	Model       string   `name:"model" help:"Model name" optional:""`
	Prompt      string   `name:"prompt" help:"Text to guide the style of the transcript" optional:""`
	Format      string   `name:"format" help:"Response format (json, text, srt, verbose_json or vtt)" optional:""`
	Temperature *float64 `name:"temperature" help:"Sampling temperature (0-1)" optional:""`
}

type TranscribeCommand struct {
	AudioOptions `embed:""`
	Language     string `name:"language" help:"Language of the audio, as an ISO-639-1 code" optional:""`
}

type TranslateCommand struct {
	AudioOptions `embed:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *TranscribeCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "TranscribeCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	req, err := openai.NewTranscriptionRequest(cmd.File)
	if err != nil {
		return err
	}
	if cmd.Model != "" {
		req.WithModel(cmd.Model)
	}
	if cmd.Prompt != "" {
		req.WithPrompt(cmd.Prompt)
	}
	if cmd.Temperature != nil {
		req.WithTemperature(*cmd.Temperature)
	}
	if cmd.Format != "" {
		format, err := openai.ParseAudioFormat(cmd.Format)
		if err != nil {
			return err
		}
		req.WithResponseFormat(format)
	}
	if cmd.Language != "" {
		lang, err := language.ParseBase(cmd.Language)
		if err != nil {
			return fmt.Errorf("language %q: %w", cmd.Language, err)
		}
		req.WithLanguage(lang)
	}

	// Send the request
	response, err := client.Transcribe(parent, req)
	if err != nil {
		return err
	}

	// Print
	return cmd.output(ctx, response)
}

func (cmd *TranslateCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "TranslateCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	req, err := openai.NewTranslationRequest(cmd.File)
	if err != nil {
		return err
	}
	if cmd.Model != "" {
		req.WithModel(cmd.Model)
	}
	if cmd.Prompt != "" {
		req.WithPrompt(cmd.Prompt)
	}
	if cmd.Temperature != nil {
		req.WithTemperature(*cmd.Temperature)
	}
	if cmd.Format != "" {
		format, err := openai.ParseAudioFormat(cmd.Format)
		if err != nil {
			return err
		}
		req.WithResponseFormat(format)
	}

	// Send the request
	response, err := client.Translate(parent, req)
	if err != nil {
		return err
	}

	// Print
	return cmd.output(ctx, response)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (opts AudioOptions) output(ctx *Globals, response *openai.AudioResponse) error {
	if ctx.JSON || opts.Format == string(openai.AudioFormatVerboseJSON) {
		return ctx.write(response)
	}
	fmt.Println(response.Text)
	return nil
}
