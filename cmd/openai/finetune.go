package main

import (
	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type FineTuneCommands struct {
	ListFineTunes  ListFineTunesCommand  `cmd:"" name:"finetunes" help:"List fine-tune jobs." group:"FINE-TUNE"`
	GetFineTune    GetFineTuneCommand    `cmd:"" name:"finetune" help:"Get a fine-tune job." group:"FINE-TUNE"`
	CreateFineTune CreateFineTuneCommand `cmd:"" name:"finetune-create" help:"Create a fine-tune job." group:"FINE-TUNE"`
	CancelFineTune CancelFineTuneCommand `cmd:"" name:"finetune-cancel" help:"Cancel a fine-tune job." group:"FINE-TUNE"`
	FineTuneEvents FineTuneEventsCommand `cmd:"" name:"finetune-events" help:"List the events of a fine-tune job." group:"FINE-TUNE"`
}

type ListFineTunesCommand struct{}

type GetFineTuneCommand struct {
	Id string `arg:"" name:"id" help:"Fine-tune identifier"`
}

type CancelFineTuneCommand struct {
	Id string `arg:"" name:"id" help:"Fine-tune identifier"`
}

type FineTuneEventsCommand struct {
	Id string `arg:"" name:"id" help:"Fine-tune identifier"`
}

type CreateFineTuneCommand struct {
	TrainingFile   string   `arg:"" name:"training-file" help:"Identifier of an uploaded training file"`
	ValidationFile string   `name:"validation-file" help:"Identifier of an uploaded validation file" optional:""`
	Model          string   `name:"model" help:"Base model (ada, babbage, curie or davinci)" optional:""`
	Epochs         *uint64  `name:"epochs" help:"Number of epochs" optional:""`
	BatchSize      *uint64  `name:"batch-size" help:"Batch size" optional:""`
	LearningRate   *float64 `name:"learning-rate" help:"Learning rate multiplier" optional:""`
	Suffix         string   `name:"suffix" help:"Suffix for the fine-tuned model name" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListFineTunesCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListFineTunesCommand")
	defer func() { endSpan(err) }()

	// List fine-tunes
	fineTunes, err := client.ListFineTunes(parent)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(fineTuneTable(fineTunes))
}

func (cmd *GetFineTuneCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GetFineTuneCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Get fine-tune
	fineTune, err := client.GetFineTune(parent, cmd.Id)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(fineTune)
}

func (cmd *CreateFineTuneCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "CreateFineTuneCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	req := openai.NewFineTuneRequest(cmd.TrainingFile)
	if cmd.ValidationFile != "" {
		req.WithValidationFile(cmd.ValidationFile)
	}
	if cmd.Model != "" {
		req.WithModel(cmd.Model)
	}
	if cmd.Epochs != nil {
		req.WithEpochs(*cmd.Epochs)
	}
	if cmd.BatchSize != nil {
		req.WithBatchSize(*cmd.BatchSize)
	}
	if cmd.LearningRate != nil {
		req.WithLearningRateMultiplier(*cmd.LearningRate)
	}
	if cmd.Suffix != "" {
		req.WithSuffix(cmd.Suffix)
	}

	// Create the fine-tune
	fineTune, err := client.CreateFineTune(parent, req)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(fineTune)
}

func (cmd *CancelFineTuneCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "CancelFineTuneCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Cancel fine-tune
	fineTune, err := client.CancelFineTune(parent, cmd.Id)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(fineTuneTable{*fineTune})
}

func (cmd *FineTuneEventsCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "FineTuneEventsCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// List events
	events, err := client.FineTuneEvents(parent, cmd.Id)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(eventTable(events))
}
