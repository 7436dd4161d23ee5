package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "historyshorts", cfg.App.Name)
	assert.Equal(t, "test-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.CompletionModel)
	assert.Equal(t, "tts-1", cfg.OpenAI.TTSModel)
	assert.Equal(t, "whisper-1", cfg.OpenAI.TranscriptionModel)
	assert.Equal(t, "dall-e-3", cfg.OpenAI.ImageModel)
	assert.Equal(t, 60*time.Second, cfg.OpenAI.RequestTimeout)

	assert.Equal(t, "videos", cfg.Events.Dir)
	assert.Equal(t, 2, cfg.Events.NumEvents)
	assert.Equal(t, 30, cfg.Events.WordsCount)
	assert.Equal(t, 5, cfg.Events.MaxImages)

	assert.Equal(t, 1080, cfg.Video.Width)
	assert.Equal(t, 1920, cfg.Video.Height)
	assert.Equal(t, 30, cfg.Video.FPS)
	assert.Equal(t, "ultrafast", cfg.Video.Preset)

	assert.Equal(t, "private", cfg.YouTube.PrivacyStatus)
	assert.Equal(t, []string{"history", "shorts", "today"}, cfg.YouTube.DefaultTags)
	assert.False(t, cfg.YouTube.MadeForKids)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("EVENTS_PER_DAY", "5")
	t.Setenv("YOUTUBE_DEFAULT_TAGS", "a,b c")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Events.NumEvents)
	assert.Equal(t, []string{"a", "b c"}, cfg.YouTube.DefaultTags)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}
