package app

import "time"

// Pipeline stage names carried in emitted events.
const (
	StageEventGenerated = "event.generated"
	StageVideoRendered  = "video.rendered"
	StageVideoUploaded  = "video.uploaded"
)

// PipelineEvent is emitted to Kafka after each pipeline stage completes for
// an event, so downstream consumers can track the run.
type PipelineEvent struct {
	Stage     string    `json:"stage"`
	EventID   string    `json:"event_id"`
	Date      string    `json:"date"`
	Title     string    `json:"title,omitempty"`
	VideoFile string    `json:"video_file,omitempty"`
	VideoID   string    `json:"video_id,omitempty"`
	At        time.Time `json:"at"`
}
