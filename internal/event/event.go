package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single historical fact-of-the-day record. It is created by the
// generation stage, enriched as the pipeline runs, and terminal once uploaded.
//
// All file paths are relative to the events root so the directory can be
// moved or archived wholesale.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Text        string    `json:"text"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Voice       string    `json:"voice,omitempty"`
	Duration    float64   `json:"duration,omitempty"` // seconds, from transcription

	TextFile          string   `json:"text_file,omitempty"`
	SpeechFile        string   `json:"speech_file,omitempty"`
	TranscriptionFile string   `json:"transcription_file,omitempty"`
	VideoFile         string   `json:"video_file,omitempty"`
	Images            []string `json:"images,omitempty"`

	Transcription *Transcription `json:"transcription,omitempty"`

	YouTubeID  string     `json:"youtube_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// New creates an Event for the given date with a fresh id.
func New(date string) *Event {
	return &Event{
		ID:        uuid.New(),
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
}

// Renderable reports whether the event carries everything the video
// assembler needs.
func (e *Event) Renderable() bool {
	return e.Transcription != nil && len(e.Transcription.Segments) > 0 && len(e.Images) > 0 && e.SpeechFile != ""
}

// Transcription is the timed narration transcript driving slide durations.
type Transcription struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration"` // seconds
	Segments []Segment `json:"segments"`
}

// Segment is one timed span of the narration.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
