package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ImageCommands struct {
	CreateImage    CreateImageCommand    `cmd:"" name:"image" help:"Generate images from a prompt." group:"IMAGE"`
	EditImage      EditImageCommand      `cmd:"" name:"image-edit" help:"Edit an image following a prompt." group:"IMAGE"`
	ImageVariation ImageVariationCommand `cmd:"" name:"image-variation" help:"Generate variations of an image." group:"IMAGE"`
}

type ImageOptions struct {
	N    uint64 `name:"n" help:"Number of images" default:"1"`
	Size string `name:"size" help:"Image size (256x256, 512x512 or 1024x1024)" optional:""`
	Out  string `name:"out" help:"Directory to save images to, instead of returning URLs" type:"existingdir" optional:""`
}

type CreateImageCommand struct {
	ImageOptions `embed:""`
	Prompt       []string `arg:"" name:"prompt" help:"Image description"`
}

type EditImageCommand struct {
	ImageOptions `embed:""`
	Image        string   `arg:"" name:"image" help:"PNG image to edit" type:"existingfile"`
	Prompt       []string `arg:"" name:"prompt" help:"Description of the edited image"`
	Mask         string   `name:"mask" help:"PNG mask, transparent where the image should be edited" type:"existingfile" optional:""`
}

type ImageVariationCommand struct {
	ImageOptions `embed:""`
	Image        string `arg:"" name:"image" help:"PNG image" type:"existingfile"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *CreateImageCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "CreateImageCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	size, err := cmd.size()
	if err != nil {
		return err
	}
	req := openai.NewImageRequest(strings.Join(cmd.Prompt, " ")).WithN(cmd.N).WithSize(size).WithResponseFormat(cmd.format())

	// Send the request
	response, err := client.CreateImage(parent, req)
	if err != nil {
		return err
	}

	// Print or save
	return cmd.output(ctx, response)
}

func (cmd *EditImageCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "EditImageCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	size, err := cmd.size()
	if err != nil {
		return err
	}
	req, err := openai.NewImageEditRequest(cmd.Image, strings.Join(cmd.Prompt, " "))
	if err != nil {
		return err
	}
	if cmd.Mask != "" {
		if req, err = req.WithMask(cmd.Mask); err != nil {
			return err
		}
	}
	req.WithN(cmd.N).WithSize(size).WithResponseFormat(cmd.format())

	// Send the request
	response, err := client.EditImage(parent, req)
	if err != nil {
		return err
	}

	// Print or save
	return cmd.output(ctx, response)
}

func (cmd *ImageVariationCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ImageVariationCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	size, err := cmd.size()
	if err != nil {
		return err
	}
	req, err := openai.NewImageVariationRequest(cmd.Image)
	if err != nil {
		return err
	}
	req.WithN(cmd.N).WithSize(size).WithResponseFormat(cmd.format())

	// Send the request
	response, err := client.ImageVariation(parent, req)
	if err != nil {
		return err
	}

	// Print or save
	return cmd.output(ctx, response)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (opts ImageOptions) size() (openai.ImageSize, error) {
	if opts.Size == "" {
		return "", nil
	}
	return openai.ParseImageSize(opts.Size)
}

func (opts ImageOptions) format() string {
	if opts.Out != "" {
		return openai.ImageFormatBase64
	}
	return openai.ImageFormatURL
}

// output prints image URLs, or writes the decoded images into the output
// directory and prints their paths
func (opts ImageOptions) output(ctx *Globals, response *openai.ImageResponse) error {
	if ctx.JSON && opts.Out == "" {
		return ctx.write(response)
	}
	for i, image := range response.Data {
		if opts.Out == "" {
			fmt.Println(image.Url)
			continue
		}
		data, err := image.Bytes()
		if err != nil {
			return err
		}
		ext := ".png"
		if exts, _ := mime.ExtensionsByType(image.ContentType()); len(exts) > 0 {
			ext = exts[0]
		}
		path := filepath.Join(opts.Out, fmt.Sprintf("image-%d-%d%s", response.Created, i, ext))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}
