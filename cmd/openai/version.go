package main

import (
	"encoding/json"
	"os"

	// Packages
	version "github.com/ArseniiRudenko/openai-req/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *VersionCommand) Run(ctx *Globals) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(version.Metadata(execName()))
}
