package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type FileCommands struct {
	ListFiles    ListFilesCommand    `cmd:"" name:"files" help:"List files." group:"FILE"`
	GetFile      GetFileCommand      `cmd:"" name:"file" help:"Get file metadata." group:"FILE"`
	UploadFile   UploadFileCommand   `cmd:"" name:"upload" help:"Upload a file." group:"FILE"`
	DownloadFile DownloadFileCommand `cmd:"" name:"download" help:"Download the content of a file." group:"FILE"`
	DeleteFile   DeleteFileCommand   `cmd:"" name:"file-delete" help:"Delete files." group:"FILE"`
}

type ListFilesCommand struct {
	Purpose string `name:"purpose" help:"Only list files with this purpose" optional:""`
}

type GetFileCommand struct {
	Id string `arg:"" name:"id" help:"File identifier"`
}

type UploadFileCommand struct {
	Path    string `arg:"" name:"path" help:"File to upload" type:"existingfile"`
	Purpose string `name:"purpose" help:"Intended use of the file" default:"fine-tune"`
}

type DownloadFileCommand struct {
	Id  string `arg:"" name:"id" help:"File identifier"`
	Out string `name:"out" short:"o" help:"Output file, otherwise written to stdout" optional:""`
}

type DeleteFileCommand struct {
	Id          []string `arg:"" name:"id" help:"File identifiers" optional:""`
	All         bool     `name:"all" help:"Delete all files"`
	Concurrency int      `name:"concurrency" help:"Number of concurrent deletions" default:"4"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListFilesCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListFilesCommand")
	defer func() { endSpan(err) }()

	// List files
	files, err := client.ListFiles(parent)
	if err != nil {
		return err
	}

	// Filter by purpose
	if cmd.Purpose != "" {
		result := make([]openai.File, 0, len(files))
		for _, file := range files {
			if file.Purpose == cmd.Purpose {
				result = append(result, file)
			}
		}
		files = result
	}

	// Print
	return ctx.write(fileTable(files))
}

func (cmd *GetFileCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GetFileCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Get file
	file, err := client.GetFile(parent, cmd.Id)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(file)
}

func (cmd *UploadFileCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "UploadFileCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Upload the file
	req, err := openai.NewFileUploadRequest(cmd.Path, cmd.Purpose)
	if err != nil {
		return err
	}
	file, err := client.UploadFile(parent, req)
	if err != nil {
		return err
	}

	// Print
	return ctx.write(file)
}

func (cmd *DownloadFileCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DownloadFileCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Write to stdout
	req := openai.File{Id: cmd.Id}.DownloadRequest()
	if cmd.Out == "" {
		_, err := client.Download(parent, req, os.Stdout)
		return err
	}

	// Write to a file
	n, err := client.DownloadToFile(parent, req, cmd.Out)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s: %d bytes\n", cmd.Out, n)
	return nil
}

func (cmd *DeleteFileCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DeleteFileCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Collect the identifiers
	ids := cmd.Id
	if cmd.All {
		files, err := client.ListFiles(parent)
		if err != nil {
			return err
		}
		for _, file := range files {
			ids = append(ids, file.Id)
		}
	}
	if len(ids) == 0 {
		return errors.New("no files to delete")
	}

	// Delete concurrently, collecting the responses
	var mu sync.Mutex
	deleted := make([]*openai.DeleteResponse, 0, len(ids))
	g, gctx := errgroup.WithContext(parent)
	g.SetLimit(max(cmd.Concurrency, 1))
	for _, id := range ids {
		g.Go(func() error {
			response, err := client.DeleteFile(gctx, id)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			mu.Lock()
			defer mu.Unlock()
			deleted = append(deleted, response)
			return nil
		})
	}
	err = g.Wait()

	// Print what was deleted, even on error
	return errors.Join(err, ctx.writeDeleted(deleted))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// writeDeleted prints each deletion status and returns any write errors
func (g *Globals) writeDeleted(deleted []*openai.DeleteResponse) error {
	var result error
	for _, response := range deleted {
		if g.JSON {
			result = errors.Join(result, g.write(response))
		} else if _, err := fmt.Fprintln(g.writer(), response); err != nil {
			result = errors.Join(result, err)
		}
	}
	return result
}
