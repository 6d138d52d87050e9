package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	gootel "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Output
	JSON bool `name:"json" help:"Write responses as JSON"`

	// API
	OpenAI `embed:"" help:"OpenAI configuration"`

	// Context
	ctx    context.Context
	tracer trace.Tracer
	client *openai.Client
	out    io.Writer
}

type OpenAI struct {
	OpenAIKey    string        `name:"api-key" env:"OPENAI_API_KEY" help:"OpenAI API Key"`
	Endpoint     string        `name:"endpoint" env:"OPENAI_ENDPOINT" help:"OpenAI endpoint" optional:""`
	Organization string        `name:"org" env:"OPENAI_ORGANIZATION" help:"OpenAI organization" optional:""`
	Timeout      time.Duration `name:"timeout" help:"Request timeout" default:"2m"`
}

type CLI struct {
	Globals

	ModelCommands
	TextCommands
	ImageCommands
	AudioCommands
	FileCommands
	FineTuneCommands

	Version VersionCommand `cmd:"" name:"version" help:"Print the version."`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("OpenAI command line interface"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.tracer = gootel.Tracer(execName())

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
