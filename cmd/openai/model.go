package main

import (
	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ModelCommands struct {
	ListModels  ListModelsCommand  `cmd:"" name:"models" help:"List models." group:"MODEL"`
	GetModel    GetModelCommand    `cmd:"" name:"model" help:"Get model." group:"MODEL"`
	DeleteModel DeleteModelCommand `cmd:"" name:"model-delete" help:"Delete a fine-tuned model." group:"MODEL"`
}

type ListModelsCommand struct{}

type GetModelCommand struct {
	Id string `arg:"" name:"id" help:"Model identifier"`
}

type DeleteModelCommand struct {
	Id string `arg:"" name:"id" help:"Fine-tuned model identifier"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListModelsCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListModelsCommand")
	defer func() { endSpan(err) }()

	// List models
	models, err := client.ListModels(parent)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(modelTable(models))
}

func (cmd *GetModelCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GetModelCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Get model
	model, err := client.GetModel(parent, cmd.Id)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(model)
}

func (cmd *DeleteModelCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DeleteModelCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Delete model
	response, err := client.DeleteModel(parent, cmd.Id)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(response)
}
