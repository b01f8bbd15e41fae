package summarizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/meetnotes/internal/transcript"
)

// ErrNoJSON is returned when no JSON object can be found in model output.
var ErrNoJSON = errors.New("no JSON object in model output")

var (
	reFence  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")
	reObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// notesDoc is the JSON document the model is asked to produce.
type notesDoc struct {
	Header struct {
		Date      string   `json:"date"`
		Time      string   `json:"time"`
		Attendees []string `json:"attendees"`
		Subject   string   `json:"subject"`
	} `json:"header"`
	Topics []struct {
		Title      string   `json:"title"`
		TimeRange  string   `json:"time_range"`
		Bullets    []string `json:"bullets"`
		Conclusion string   `json:"conclusion"`
	} `json:"topics"`
	ActionItems []struct {
		Owner string `json:"owner"`
		Items []struct {
			Description string `json:"description"`
			Deadline    string `json:"deadline"`
		} `json:"items"`
	} `json:"action_items"`
	Metanotes []string `json:"metanotes"`
}

// extractNotes finds the notes object in text. Markdown fences and prose
// around the object are tolerated.
func extractNotes(text string) (*notesDoc, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoJSON
	}

	if m := reFence.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var doc notesDoc
	if err := json.Unmarshal([]byte(text), &doc); err == nil {
		return &doc, nil
	}

	obj := reObject.FindString(text)
	if obj == "" {
		return nil, ErrNoJSON
	}
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return &doc, nil
}

// Markdown renders the notes. Header fields the model left empty are taken
// from the meeting when m is not nil.
func (d *notesDoc) Markdown(m *transcript.Meeting) string {
	h := d.Header
	if m != nil {
		if h.Date == "" && !m.StartTime.IsZero() {
			h.Date = m.StartTime.Format("2006-01-02")
		}
		if h.Time == "" && !m.StartTime.IsZero() {
			h.Time = m.StartTime.Format("15:04")
		}
		if len(h.Attendees) == 0 {
			h.Attendees = m.Participants
		}
		if h.Subject == "" {
			h.Subject = m.Title
		}
	}

	var b strings.Builder
	b.WriteString("# Meeting Notes\n")
	if h.Date != "" {
		fmt.Fprintf(&b, "**Date:** %s\n", h.Date)
	}
	if h.Time != "" {
		fmt.Fprintf(&b, "**Time:** %s\n", h.Time)
	}
	if len(h.Attendees) > 0 {
		b.WriteString("**Attendees:**\n")
		for _, a := range h.Attendees {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	if h.Subject != "" {
		fmt.Fprintf(&b, "\n**Subject:** %s\n", h.Subject)
	}

	if len(d.Topics) > 0 {
		b.WriteString("\n---\n")
		for i, t := range d.Topics {
			title := t.Title
			if title == "" {
				title = fmt.Sprintf("Topic %d", i+1)
			}
			fmt.Fprintf(&b, "\n## %d. %s", i+1, title)
			if t.TimeRange != "" {
				fmt.Fprintf(&b, " (%s)", t.TimeRange)
			}
			b.WriteString("\n")
			for _, bullet := range t.Bullets {
				fmt.Fprintf(&b, "- %s\n", bullet)
			}
			if t.Conclusion != "" {
				fmt.Fprintf(&b, "\n**Conclusion:** %s\n", t.Conclusion)
			}
		}
	}

	if len(d.ActionItems) > 0 {
		b.WriteString("\n## Action Items\n")
		for _, grp := range d.ActionItems {
			owner := grp.Owner
			if owner == "" {
				owner = "Unassigned"
			}
			fmt.Fprintf(&b, "- **%s**\n", owner)
			for _, it := range grp.Items {
				if it.Deadline != "" {
					fmt.Fprintf(&b, "  - %s (due %s)\n", it.Description, it.Deadline)
				} else {
					fmt.Fprintf(&b, "  - %s\n", it.Description)
				}
			}
		}
	}

	if len(d.Metanotes) > 0 {
		b.WriteString("\n## Metanotes\n")
		for _, n := range d.Metanotes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}

	return b.String()
}
