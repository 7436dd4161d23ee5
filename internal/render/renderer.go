package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/internal/storage/eventstore"
	"github.com/your-org/historyshorts/pkg/config"
)

// captionWidth is the character budget per caption line before wrapping.
const captionWidth = 28

// Renderer is the video assembler stage: it turns a stored event into a
// vertical short with burned-in captions and the narration as audio track.
type Renderer struct {
	ffmpeg *FFmpeg
	store  *eventstore.Store
	cfg    config.VideoConfig
	logger *zap.Logger
}

type Params struct {
	FFmpeg *FFmpeg
	Store  *eventstore.Store
	Config config.VideoConfig
	Logger *zap.Logger
}

// New constructs a Renderer.
func New(p Params) *Renderer {
	return &Renderer{
		ffmpeg: p.FFmpeg,
		store:  p.Store,
		cfg:    p.Config,
		logger: p.Logger,
	}
}

// RenderDate renders every renderable event stored for the date and returns
// the events rendered this run. One broken event does not stop the rest.
func (r *Renderer) RenderDate(ctx context.Context, date string) ([]*event.Event, error) {
	events, err := r.store.LoadEvents(date)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		r.logger.Info("no events to render", zap.String("date", date))
		return nil, nil
	}

	var rendered []*event.Event
	for _, ev := range events {
		if !ev.Renderable() {
			r.logger.Warn("skipping event without narration assets",
				zap.String("event_id", ev.ID.String()))
			continue
		}
		if err := r.RenderEvent(ctx, ev); err != nil {
			r.logger.Error("render failed",
				zap.String("event_id", ev.ID.String()), zap.Error(err))
			continue
		}
		rendered = append(rendered, ev)
	}
	return rendered, nil
}

// RenderEvent renders one event: a clip per slide, concatenated, with the
// narration muxed in. The event record is updated with the video path.
func (r *Renderer) RenderEvent(ctx context.Context, ev *event.Event) error {
	slides, err := BuildSlides(ev)
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "historyshorts-render-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	listFile := filepath.Join(workDir, "slides.txt")
	list, err := os.Create(listFile)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}

	for i, slide := range slides {
		textFile := filepath.Join(workDir, fmt.Sprintf("caption_%d.txt", i))
		if err := os.WriteFile(textFile, []byte(wrapText(slide.Text, captionWidth)), 0o644); err != nil {
			list.Close()
			return fmt.Errorf("write caption %d: %w", i, err)
		}

		clipFile := filepath.Join(workDir, fmt.Sprintf("slide_%d.mp4", i))
		args := slideArgs(r.store.Abs(slide.BackgroundImage), textFile, clipFile, slide.Duration, r.cfg)
		if err := r.ffmpeg.Run(ctx, args); err != nil {
			list.Close()
			return fmt.Errorf("render slide %d: %w", i, err)
		}

		if _, err := fmt.Fprintf(list, "file '%s'\n", clipFile); err != nil {
			list.Close()
			return fmt.Errorf("append concat list: %w", err)
		}
	}
	if err := list.Close(); err != nil {
		return fmt.Errorf("close concat list: %w", err)
	}

	videoRel := r.store.VideoPath(ev.Date, ev.ID)
	audio := r.store.Abs(ev.SpeechFile)
	if err := r.ffmpeg.Run(ctx, concatArgs(listFile, audio, r.store.Abs(videoRel))); err != nil {
		return fmt.Errorf("concat slides: %w", err)
	}

	ev.VideoFile = videoRel
	if ev.Duration == 0 {
		if seconds, err := r.ffmpeg.ProbeDuration(ctx, r.store.Abs(videoRel)); err == nil {
			ev.Duration = seconds
		}
	}

	if err := r.store.SaveEvent(ev); err != nil {
		return err
	}

	r.logger.Info("video rendered",
		zap.String("event_id", ev.ID.String()),
		zap.String("video", videoRel),
		zap.Int("slides", len(slides)),
	)
	return nil
}
