package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/pkg/config"
)

func newDisabledApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "historyshorts-test"
	cfg.OpenAI.APIKey = "test-key"
	cfg.OpenAI.RequestTimeout = time.Second
	cfg.Events.Dir = t.TempDir()
	cfg.Video.FFmpegBin = "ffmpeg"
	cfg.Video.FFprobeBin = "ffprobe"

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	return a
}

func TestNewWithOptionalFeaturesDisabled(t *testing.T) {
	a := newDisabledApp(t)

	assert.Nil(t, a.producer)
	assert.Nil(t, a.archive)
	assert.NoError(t, a.Close(context.Background()))
}

func TestEmitWithoutProducerIsNoOp(t *testing.T) {
	a := newDisabledApp(t)
	defer a.Close(context.Background()) //nolint:errcheck

	a.emit(context.Background(), PipelineEvent{
		Stage:   StageEventGenerated,
		EventID: "00000000-0000-0000-0000-000000000000",
		Date:    "2024-05-01",
	})
}

func TestArchiveVideoWithoutArchiveIsNoOp(t *testing.T) {
	a := newDisabledApp(t)
	defer a.Close(context.Background()) //nolint:errcheck

	ev := event.New("2024-05-01")
	ev.VideoFile = "2024-05-01/x/video.mp4"
	a.archiveVideo(context.Background(), ev)
}
