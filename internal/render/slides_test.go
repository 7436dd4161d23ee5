package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/historyshorts/internal/event"
)

func renderableEvent() *event.Event {
	ev := event.New("2024-05-01")
	ev.SpeechFile = "2024-05-01/x/tts.mp3"
	ev.Images = []string{"img0.png", "img1.png"}
	ev.Transcription = &event.Transcription{
		Duration: 9,
		Segments: []event.Segment{
			{ID: 0, Start: 0, End: 2, Text: "one"},
			{ID: 1, Start: 2, End: 5, Text: "two"},
			{ID: 2, Start: 5, End: 9, Text: "three"},
		},
	}
	return ev
}

func TestBuildSlides(t *testing.T) {
	slides, err := BuildSlides(renderableEvent())
	require.NoError(t, err)
	require.Len(t, slides, 3)

	assert.Equal(t, 2.0, slides[0].Duration)
	assert.Equal(t, 3.0, slides[1].Duration)
	assert.Equal(t, 4.0, slides[2].Duration)

	// Images cycle round-robin when there are more segments than images.
	assert.Equal(t, "img0.png", slides[0].BackgroundImage)
	assert.Equal(t, "img1.png", slides[1].BackgroundImage)
	assert.Equal(t, "img0.png", slides[2].BackgroundImage)
}

func TestBuildSlidesMissingTranscription(t *testing.T) {
	ev := renderableEvent()
	ev.Transcription = nil

	_, err := BuildSlides(ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transcription")
}

func TestBuildSlidesMissingImages(t *testing.T) {
	ev := renderableEvent()
	ev.Images = nil

	_, err := BuildSlides(ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no images")
}

func TestBuildSlidesBadSegment(t *testing.T) {
	ev := renderableEvent()
	ev.Transcription.Segments[1].End = ev.Transcription.Segments[1].Start

	_, err := BuildSlides(ev)
	require.Error(t, err)
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short line stays", "hello world", 28, "hello world"},
		{"wraps on word boundary", "the quick brown fox jumps", 10, "the quick\nbrown fox\njumps"},
		{"single long word kept", "extraordinarily", 5, "extraordinarily"},
		{"multibyte runes count once", "café über", 9, "café über"},
		{"empty", "   ", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.in, tt.width))
		})
	}
}
