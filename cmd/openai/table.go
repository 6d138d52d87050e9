package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	openai "github.com/ArseniiRudenko/openai-req/pkg/openai"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// TableData is implemented by responses which are listed as rows.
type TableData interface {
	Header() []string
	Len() int
	Row(i int) []any
}

// Timestamp is a unix time in seconds, as returned by the API.
type Timestamp uint64

type modelTable []openai.Model
type fileTable []openai.File
type fineTuneTable []openai.FineTune
type eventTable []openai.FineTuneEvent
type moderationTable []openai.Moderation
type embeddingTable []openai.Embedding

///////////////////////////////////////////////////////////////////////////////
// STYLES

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	flaggedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cellStyle    = lipgloss.NewStyle()
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Render draws the rows as a bordered table, narrowed to the terminal
// width when the natural width does not fit.
func Render(data TableData) string {
	t := lgtable.New().
		Headers(data.Header()...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Wrap(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for i := range data.Len() {
		row := data.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatCell(v)
		}
		t.Row(cells...)
	}

	result := t.Render()
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		if widest(result) > w {
			t.Width(w)
			result = t.Render()
		}
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// ROWS

func (t modelTable) Header() []string {
	return []string{"ID", "Owned By", "Created"}
}

func (t modelTable) Len() int {
	return len(t)
}

func (t modelTable) Row(i int) []any {
	return []any{t[i].Id, t[i].OwnedBy, Timestamp(t[i].Created)}
}

func (t fileTable) Header() []string {
	return []string{"ID", "Filename", "Purpose", "Bytes", "Created"}
}

func (t fileTable) Len() int {
	return len(t)
}

func (t fileTable) Row(i int) []any {
	return []any{t[i].Id, t[i].Filename, t[i].Purpose, t[i].Bytes, Timestamp(t[i].CreatedAt)}
}

func (t fineTuneTable) Header() []string {
	return []string{"ID", "Model", "Status", "Fine-Tuned Model", "Updated"}
}

func (t fineTuneTable) Len() int {
	return len(t)
}

func (t fineTuneTable) Row(i int) []any {
	var model string
	if t[i].FineTunedModel != nil {
		model = *t[i].FineTunedModel
	}
	return []any{t[i].Id, t[i].Model, t[i].Status, model, Timestamp(t[i].UpdatedAt)}
}

func (t eventTable) Header() []string {
	return []string{"Created", "Level", "Message"}
}

func (t eventTable) Len() int {
	return len(t)
}

func (t eventTable) Row(i int) []any {
	return []any{Timestamp(t[i].CreatedAt), t[i].Level, t[i].Message}
}

func (t moderationTable) Header() []string {
	return []string{"#", "Flagged", "Categories"}
}

func (t moderationTable) Len() int {
	return len(t)
}

func (t moderationTable) Row(i int) []any {
	flagged := "no"
	if t[i].Flagged {
		flagged = flaggedStyle.Render("yes")
	}
	return []any{fmt.Sprint(i), flagged, strings.Join(t[i].FlaggedCategories(), ", ")}
}

func (t embeddingTable) Header() []string {
	return []string{"#", "Dimensions", "Vector"}
}

func (t embeddingTable) Len() int {
	return len(t)
}

func (t embeddingTable) Row(i int) []any {
	head := t[i].Vector[:min(len(t[i].Vector), 4)]
	values := make([]string, 0, len(head)+1)
	for _, v := range head {
		values = append(values, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if len(head) < len(t[i].Vector) {
		values = append(values, "…")
	}
	return []any{fmt.Sprint(t[i].Index), fmt.Sprint(len(t[i].Vector)), strings.Join(values, ", ")}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// formatCell converts a value to a display string, using "-" for empty
// values.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case Timestamp:
		if val == 0 {
			return "-"
		}
		return time.Unix(int64(val), 0).Local().Format("2006-01-02 15:04")
	case uint64:
		if val == 0 {
			return "-"
		}
		return fmt.Sprint(val)
	default:
		if s := fmt.Sprint(val); s != "" {
			return s
		}
		return "-"
	}
}

func widest(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		n = max(n, lipgloss.Width(line))
	}
	return n
}
