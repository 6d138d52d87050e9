package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	version "github.com/ArseniiRudenko/openai-req/pkg/version"
	client "github.com/mutablelogic/go-client"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client returns an OpenAI client configured from the global flags. The
// client is created once and reused.
func (g *Globals) Client() (*openai.Client, error) {
	if g.client != nil {
		return g.client, nil
	}
	if g.OpenAIKey == "" {
		return nil, fmt.Errorf("missing api key: set OPENAI_API_KEY or --api-key")
	}

	// Client options
	opts := []client.ClientOpt{
		client.OptUserAgent(version.UserAgent(execName())),
	}
	if g.Debug || g.Verbose {
		opts = append(opts, client.OptTrace(os.Stderr, g.Verbose))
	}
	if g.tracer != nil {
		opts = append(opts, client.OptTracer(g.tracer))
	}
	if g.Timeout > 0 {
		opts = append(opts, client.OptTimeout(g.Timeout))
	}
	if g.Endpoint != "" {
		opts = append(opts, client.OptEndpoint(g.Endpoint))
	}
	if g.Organization != "" {
		opts = append(opts, openai.WithOrganization(g.Organization))
	}

	c, err := openai.New(g.OpenAIKey, opts...)
	if err != nil {
		return nil, err
	}
	g.client = c
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// write prints a response. JSON is used when requested or when stdout is
// not a terminal, tables are used for TableData and anything else is
// printed with its String method.
func (g *Globals) write(v any) error {
	w := g.writer()
	if g.JSON || g.out != nil || !isTerminal() {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if t, ok := v.(TableData); ok && t.Len() == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	} else if ok {
		_, err := fmt.Fprintln(w, Render(t))
		return err
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

// writer returns where responses are printed, stdout unless set otherwise
func (g *Globals) writer() io.Writer {
	if g.out != nil {
		return g.out
	}
	return os.Stdout
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
