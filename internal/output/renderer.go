// Package output renders the live event feed to the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"starlog/internal/model"
)

// Renderer writes ProcessedEvent values to an output stream.
type Renderer interface {
	Render(ev model.ProcessedEvent) error
}

// ---------------------------------------------------------------------------
// Text renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleTimestamp = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleInvalid   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	categoryStyles = map[model.EventCategory]lipgloss.Style{
		model.CategoryCombat:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		model.CategoryNavigation:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model.CategoryExploration: lipgloss.NewStyle().Foreground(lipgloss.Color("48")),
		model.CategoryTrading:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		model.CategoryMission:     lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		model.CategoryCarrier:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		model.CategorySocial:      lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
		model.CategoryShip:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
	styleDefaultCat = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TextRenderer prints events with category-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(ev model.ProcessedEvent) error {
	ts := styleTimestamp.Render(ev.Timestamp.Format("15:04:05"))
	tag := categoryTag(ev.Category)

	line := fmt.Sprintf("%s %s %s", ts, tag, ev.Summary)
	if !ev.IsValid {
		line += " " + styleInvalid.Render("[invalid]")
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func categoryTag(cat model.EventCategory) string {
	padded := fmt.Sprintf("%-11s", cat)
	if style, ok := categoryStyles[cat]; ok {
		return style.Render(padded)
	}
	return styleDefaultCat.Render(padded)
}

// ---------------------------------------------------------------------------
// JSON renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each event as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) Render(ev model.ProcessedEvent) error {
	return r.enc.Encode(ev)
}
