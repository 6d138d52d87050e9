package main

import (
	"fmt"
	"os"
	"strings"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	termenv "github.com/muesli/termenv"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultWrap = 100
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// printMarkdown writes generated text to stdout, rendered as markdown when
// stdout is a terminal.
func printMarkdown(text string) error {
	if !isTerminal() {
		fmt.Println(text)
		return nil
	}

	// Pick a style for the terminal background
	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}
	width := defaultWrap
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = min(w, defaultWrap)
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithStylePath(style), glamour.WithWordWrap(width))
	if err != nil {
		return err
	}
	out, err := renderer.Render(text)
	if err != nil {
		return err
	}
	fmt.Print(strings.TrimRight(out, "\n") + "\n")
	return nil
}
