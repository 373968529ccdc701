package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"starlog/internal/model"
)

func TestTextRendererIncludesSummaryAndTime(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}

	ev := model.ProcessedEvent{
		EventType: "FSDJump",
		Timestamp: time.Date(2026, 3, 18, 10, 30, 45, 0, time.UTC),
		Category:  model.CategoryNavigation,
		Summary:   "Jumped to Lave (9.50 ly)",
		IsValid:   true,
	}

	assert.NoError(t, r.Render(ev))
	out := buf.String()
	assert.Contains(t, out, "10:30:45")
	assert.Contains(t, out, "Jumped to Lave (9.50 ly)")
	assert.NotContains(t, out, "[invalid]")
}

func TestTextRendererMarksInvalidEvents(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf}

	ev := model.ProcessedEvent{
		EventType: model.UnknownEventType,
		Timestamp: time.Date(2026, 3, 18, 10, 30, 45, 0, time.UTC),
		Category:  model.CategoryOther,
		Summary:   "Unknown event occurred",
	}

	assert.NoError(t, r.Render(ev))
	assert.Contains(t, buf.String(), "[invalid]")
}

func TestJSONRendererEmitsOneLine(t *testing.T) {
	var buf bytes.Buffer
	r := &JSONRenderer{enc: json.NewEncoder(&buf)}

	ev := model.ProcessedEvent{
		EventType: "Docked",
		Category:  model.CategoryNavigation,
		Summary:   "Docked at Lave Station",
		IsValid:   true,
	}

	assert.NoError(t, r.Render(ev))
	out := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, `"Docked at Lave Station"`)
}
