package publish

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/internal/storage/eventstore"
	"github.com/your-org/historyshorts/pkg/config"
)

// Publisher is the final pipeline stage: it uploads every rendered video for
// a date and records the platform id back into the event record.
type Publisher struct {
	uploader Uploader
	store    *eventstore.Store
	cfg      config.YouTubeConfig
	logger   *zap.Logger
}

type Params struct {
	Uploader Uploader
	Store    *eventstore.Store
	Config   config.YouTubeConfig
	Logger   *zap.Logger
}

// New constructs a Publisher.
func New(p Params) *Publisher {
	return &Publisher{
		uploader: p.Uploader,
		store:    p.Store,
		cfg:      p.Config,
		logger:   p.Logger,
	}
}

// UploadDate uploads every event of the date that has a rendered video file,
// skipping events already uploaded or without one. Returns the uploaded
// events.
func (p *Publisher) UploadDate(ctx context.Context, date string) ([]*event.Event, error) {
	events, err := p.store.LoadEvents(date)
	if err != nil {
		return nil, err
	}

	var uploaded []*event.Event
	for _, ev := range events {
		if ev.YouTubeID != "" {
			p.logger.Info("already uploaded", zap.String("event_id", ev.ID.String()),
				zap.String("video_id", ev.YouTubeID))
			continue
		}
		if ev.VideoFile == "" {
			p.logger.Warn("skipping event without rendered video",
				zap.String("event_id", ev.ID.String()))
			continue
		}
		path := p.store.Abs(ev.VideoFile)
		if _, err := os.Stat(path); err != nil {
			p.logger.Warn("skipping event, video file missing",
				zap.String("event_id", ev.ID.String()), zap.String("video", path))
			continue
		}

		video := BuildVideo(ev, path, p.cfg)
		videoID, err := p.uploader.Upload(ctx, video)
		if err != nil {
			p.logger.Error("upload failed",
				zap.String("event_id", ev.ID.String()), zap.Error(err))
			continue
		}

		now := time.Now().UTC()
		ev.YouTubeID = videoID
		ev.UploadedAt = &now
		// The upload already happened; report it even if persisting fails.
		uploaded = append(uploaded, ev)
		if err := p.store.SaveEvent(ev); err != nil {
			return uploaded, fmt.Errorf("persist uploaded event %s: %w", ev.ID, err)
		}
	}

	return uploaded, nil
}
