package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/your-org/historyshorts/internal/event"
)

// Slide is one caption-over-image span of the final video. Durations come
// from the narration transcript so captions track the spoken words.
type Slide struct {
	Text            string
	Duration        float64
	BackgroundImage string // store-relative path
}

// BuildSlides derives the slide sequence for an event: one slide per
// transcription segment, background images assigned round-robin.
func BuildSlides(ev *event.Event) ([]Slide, error) {
	if ev.Transcription == nil || len(ev.Transcription.Segments) == 0 {
		return nil, fmt.Errorf("event %s has no transcription", ev.ID)
	}
	if len(ev.Images) == 0 {
		return nil, fmt.Errorf("event %s has no images", ev.ID)
	}

	slides := make([]Slide, 0, len(ev.Transcription.Segments))
	for i, seg := range ev.Transcription.Segments {
		duration := seg.End - seg.Start
		if duration <= 0 {
			return nil, fmt.Errorf("event %s segment %d has non-positive duration", ev.ID, seg.ID)
		}
		slides = append(slides, Slide{
			Text:            seg.Text,
			Duration:        duration,
			BackgroundImage: ev.Images[i%len(ev.Images)],
		})
	}
	return slides, nil
}

// wrapText breaks text into lines of at most width runes on word
// boundaries. The drawtext filter does not wrap on its own.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var (
		lines   []string
		line    string
		lineLen int
	)
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case line == "":
			line, lineLen = word, wordLen
		case lineLen+1+wordLen <= width:
			line += " " + word
			lineLen += 1 + wordLen
		default:
			lines = append(lines, line)
			line, lineLen = word, wordLen
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
