package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/pkg/config"
)

func testYouTubeConfig() config.YouTubeConfig {
	return config.YouTubeConfig{
		CategoryID:        "27",
		PrivacyStatus:     "private",
		TitlePrefix:       "Today in history:",
		DescriptionSuffix: "♥ Generated by AI ♥",
		DefaultLanguage:   "en",
		DefaultTags:       []string{"history", "shorts"},
	}
}

func TestBuildVideo(t *testing.T) {
	ev := event.New("2024-05-01")
	ev.Title = "Metro Opens"
	ev.Description = "First metro line"
	ev.Tags = []string{"Metro", "New York"}

	video := BuildVideo(ev, "/tmp/video.mp4", testYouTubeConfig())

	assert.Equal(t, "/tmp/video.mp4", video.FilePath)
	assert.Equal(t, "Today in history: Metro Opens #metro #newyork #history #shorts", video.Title)
	assert.Equal(t, "First metro line ♥ Generated by AI ♥", video.Description)
	assert.Equal(t, []string{"metro", "newyork", "history", "shorts"}, video.Tags)
	assert.Equal(t, "27", video.CategoryID)
	assert.Equal(t, "private", video.PrivacyStatus)
	assert.False(t, video.MadeForKids)
}

func TestBuildVideoNoTags(t *testing.T) {
	ev := event.New("2024-05-01")
	ev.Title = "Metro Opens"

	cfg := testYouTubeConfig()
	cfg.DefaultTags = nil

	video := BuildVideo(ev, "/tmp/video.mp4", cfg)
	assert.Equal(t, "Today in history: Metro Opens", video.Title)
	assert.Empty(t, video.Tags)
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"lowercases and despaces", []string{"New York", "WWII era"}, []string{"newyork", "wwiiera"}},
		{"drops empties and dupes", []string{"a", "", "A", "b"}, []string{"a", "b"}},
		{"nil is empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTags(tt.in))
		})
	}
}
