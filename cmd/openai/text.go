package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	// Packages
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	types "github.com/mutablelogic/go-server/pkg/types"
	attribute "go.opentelemetry.io/otel/attribute"
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type TextCommands struct {
	Chat     ChatCommand     `cmd:"" name:"chat" help:"Send a chat message." group:"TEXT"`
	Complete CompleteCommand `cmd:"" name:"complete" help:"Complete a prompt." group:"TEXT"`
	Edit     EditCommand     `cmd:"" name:"edit" help:"Edit text following an instruction." group:"TEXT"`
	Embed    EmbedCommand    `cmd:"" name:"embed" help:"Create embeddings." group:"TEXT"`
	Moderate ModerateCommand `cmd:"" name:"moderate" help:"Classify text against the usage policies." group:"TEXT"`
}

type ChatCommand struct {
	Text         []string `arg:"" name:"text" help:"User message" optional:""`
	Model        string   `name:"model" help:"Model name" optional:""`
	System       string   `name:"system" help:"System message" optional:""`
	Conversation string   `name:"conversation" help:"YAML file with earlier messages" type:"existingfile" optional:""`
	Temperature  *float64 `name:"temperature" help:"Sampling temperature (0-2)" optional:""`
	MaxTokens    *uint64  `name:"max-tokens" help:"Maximum tokens to generate" optional:""`
	Seed         *int64   `name:"seed" help:"Seed for deterministic sampling" optional:""`
	JSONObject   bool     `name:"json-object" help:"Constrain the reply to a JSON object"`
	Stream       bool     `name:"stream" help:"Stream the reply"`
}

type CompleteCommand struct {
	Prompt      []string `arg:"" name:"prompt" help:"Prompt text"`
	Model       string   `name:"model" help:"Model name" optional:""`
	Suffix      string   `name:"suffix" help:"Text after the completion" optional:""`
	Temperature *float64 `name:"temperature" help:"Sampling temperature (0-2)" optional:""`
	MaxTokens   *uint64  `name:"max-tokens" help:"Maximum tokens to generate" optional:""`
	Stop        []string `name:"stop" help:"Stop sequences" optional:""`
	Stream      bool     `name:"stream" help:"Stream the completion"`
}

type EditCommand struct {
	Instruction string   `arg:"" name:"instruction" help:"How to edit the input"`
	Input       string   `name:"input" help:"Text to edit, or - to read stdin" optional:""`
	Code        bool     `name:"code" help:"Use the code edit model"`
	Model       string   `name:"model" help:"Model name, overrides --code" optional:""`
	Temperature *float64 `name:"temperature" help:"Sampling temperature (0-2)" optional:""`
}

type EmbedCommand struct {
	Input      []string `arg:"" name:"input" help:"Text to embed"`
	Model      string   `name:"model" help:"Model name" optional:""`
	Dimensions *uint64  `name:"dimensions" help:"Number of dimensions" optional:""`
}

type ModerateCommand struct {
	Input  []string `arg:"" name:"input" help:"Text to classify"`
	Latest bool     `name:"latest" help:"Use the latest moderation model"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ChatCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ChatCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the conversation
	messages := []openai.Message{}
	if cmd.System != "" {
		messages = append(messages, openai.NewMessage(openai.RoleSystem, cmd.System))
	}
	if cmd.Conversation != "" {
		conversation, err := readConversation(cmd.Conversation)
		if err != nil {
			return err
		}
		messages = append(messages, conversation...)
	}
	if text := strings.TrimSpace(strings.Join(cmd.Text, " ")); text != "" {
		messages = append(messages, openai.NewMessage(openai.RoleUser, text))
	}

	// Build the request
	req := openai.NewChatRequest(messages...)
	if cmd.Model != "" {
		req.WithModel(cmd.Model)
	}
	if cmd.Temperature != nil {
		req.WithTemperature(*cmd.Temperature)
	}
	if cmd.MaxTokens != nil {
		req.WithMaxTokens(*cmd.MaxTokens)
	}
	if cmd.Seed != nil {
		req.WithSeed(*cmd.Seed)
	}
	if cmd.JSONObject {
		req.WithJSONObject()
	}

	// Stream the reply as it arrives
	if cmd.Stream {
		if err := client.ChatStream(parent, req, func(chunk *openai.ChatChunk) error {
			for _, choice := range chunk.Choices {
				if choice.Index == 0 {
					fmt.Print(choice.Delta.Content)
				}
			}
			return nil
		}); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}

	// Send the request
	response, err := client.Chat(parent, req)
	if err != nil {
		return err
	}

	// Print
	if ctx.JSON {
		return ctx.write(response)
	}
	return printMarkdown(response.Text())
}

func (cmd *CompleteCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "CompleteCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	req := openai.NewCompletionRequest(strings.Join(cmd.Prompt, " "))
	if cmd.Model != "" {
		req.WithModel(cmd.Model)
	}
	if cmd.Suffix != "" {
		req.WithSuffix(cmd.Suffix)
	}
	if cmd.Temperature != nil {
		req.WithTemperature(*cmd.Temperature)
	}
	if cmd.MaxTokens != nil {
		req.WithMaxTokens(*cmd.MaxTokens)
	}
	if len(cmd.Stop) > 0 {
		req.WithStop(cmd.Stop...)
	}

	// Stream the completion as it arrives
	if cmd.Stream {
		if err := client.CompleteStream(parent, req, func(chunk *openai.CompletionResponse) error {
			fmt.Print(chunk.Text())
			return nil
		}); err != nil {
			return err
		}
		fmt.Println()
		return nil
	}

	// Send the request
	response, err := client.Complete(parent, req)
	if err != nil {
		return err
	}

	// Print
	if ctx.JSON {
		return ctx.write(response)
	}
	fmt.Println(response.Text())
	return nil
}

func (cmd *EditCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "EditCommand",
		attribute.String("request", types.Stringify(cmd)),
	)
	defer func() { endSpan(err) }()

	// Build the request
	var req *openai.EditRequest
	switch {
	case cmd.Model != "":
		req = openai.NewEditRequestWithModel(cmd.Model, cmd.Instruction)
	case cmd.Code:
		req = openai.NewCodeEditRequest(cmd.Instruction)
	default:
		req = openai.NewTextEditRequest(cmd.Instruction)
	}
	if cmd.Input == "-" {
		data, err := readAll(os.Stdin)
		if err != nil {
			return err
		}
		req.WithInput(data)
	} else if cmd.Input != "" {
		req.WithInput(cmd.Input)
	}
	if cmd.Temperature != nil {
		req.WithTemperature(*cmd.Temperature)
	}

	// Send the request
	response, err := client.Edit(parent, req)
	if err != nil {
		return err
	}

	// Print
	if ctx.JSON {
		return ctx.write(response)
	}
	fmt.Println(response.Text())
	return nil
}

func (cmd *EmbedCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "EmbedCommand")
	defer func() { endSpan(err) }()

	// Build the request
	req := openai.NewEmbeddingRequest(cmd.Input...)
	if cmd.Model != "" {
		req.Model = cmd.Model
	}
	if cmd.Dimensions != nil {
		req.WithDimensions(*cmd.Dimensions)
	}

	// Send the request
	response, err := client.Embedding(parent, req)
	if err != nil {
		return err
	}

	// Print
	if ctx.JSON || !isTerminal() {
		return ctx.write(response)
	}
	return ctx.write(embeddingTable(response.Data))
}

func (cmd *ModerateCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ModerateCommand")
	defer func() { endSpan(err) }()

	// Build the request
	req := openai.NewModerationRequest(cmd.Input...)
	if cmd.Latest {
		req = openai.NewModerationRequestWithModel(openai.ModelModerationLatest, cmd.Input...)
	}

	// Send the request
	response, err := client.Moderate(parent, req)
	if err != nil {
		return err
	}

	// Print
	if ctx.JSON || !isTerminal() {
		return ctx.write(response)
	}
	return ctx.write(moderationTable(response.Results))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// readConversation reads earlier messages from a YAML file. The YAML is
// decoded to native values and then through JSON into messages, so the
// fields use the same names as the API.
func readConversation(path string) ([]openai.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data, err = json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var messages []openai.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return messages, nil
}

// readAll reads text to edit, without trailing newlines
func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}
