package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/ai"
	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/internal/generate"
	"github.com/your-org/historyshorts/internal/publish"
	"github.com/your-org/historyshorts/internal/render"
	"github.com/your-org/historyshorts/internal/storage/eventstore"
	"github.com/your-org/historyshorts/pkg/config"
	"github.com/your-org/historyshorts/pkg/kafka"
	"github.com/your-org/historyshorts/pkg/storage/objectstore"
	"github.com/your-org/historyshorts/pkg/tracing"
)

// App wires the pipeline stages together with the shared infrastructure:
// event store, model API client, optional Kafka producer and object store
// archive, tracing, and logging.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	tracer trace.Tracer

	store     *eventstore.Store
	generator *generate.Generator
	renderer  *render.Renderer

	producer      *kafka.Producer
	archive       objectstore.Client
	traceShutdown func(context.Context) error
}

// New builds the application from configuration. Kafka, archival, and
// tracing are optional; disabled features stay nil and become no-ops.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	traceShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	store, err := eventstore.New(cfg.Events.Dir)
	if err != nil {
		return nil, err
	}

	client := ai.New(cfg.OpenAI, logger)

	app := &App{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer(cfg.App.Name),
		store:  store,
		generator: generate.New(generate.Params{
			AI:     client,
			Store:  store,
			Config: cfg.Events,
			Logger: logger,
		}),
		renderer: render.New(render.Params{
			FFmpeg: render.NewFFmpeg(cfg.Video),
			Store:  store,
			Config: cfg.Video,
			Logger: logger,
		}),
		traceShutdown: traceShutdown,
	}

	if cfg.Kafka.Enabled {
		app.producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.PipelineTopic,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
			Compression:  kafka.CompressionFromString(cfg.Kafka.Compression),
			MaxAttempts:  cfg.Kafka.Retries,
		})
	}

	if cfg.Archive.Enabled {
		archive, err := objectstore.New(objectstore.Config{
			Provider:  cfg.Archive.Provider,
			Endpoint:  cfg.Archive.Endpoint,
			Region:    cfg.Archive.Region,
			Bucket:    cfg.Archive.Bucket,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init archive store: %w", err)
		}
		app.archive = archive
	}

	return app, nil
}

// Today returns the pipeline's date key for the current day.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// GenerateEvents runs the event source stage for a date.
func (a *App) GenerateEvents(ctx context.Context, date string, approve generate.Approver) ([]*event.Event, error) {
	ctx, span := a.tracer.Start(ctx, "generate_events")
	defer span.End()

	events, err := a.generator.GenerateEvents(ctx, date, approve)
	for _, ev := range events {
		a.emit(ctx, PipelineEvent{Stage: StageEventGenerated, EventID: ev.ID.String(), Date: date, Title: ev.Title})
	}
	return events, err
}

// GenerateFromText runs the event source stage for caller-supplied text.
func (a *App) GenerateFromText(ctx context.Context, date, text string) (*event.Event, error) {
	ctx, span := a.tracer.Start(ctx, "generate_event_from_text")
	defer span.End()

	ev, err := a.generator.FromText(ctx, date, text)
	if err != nil {
		return nil, err
	}
	a.emit(ctx, PipelineEvent{Stage: StageEventGenerated, EventID: ev.ID.String(), Date: date, Title: ev.Title})
	return ev, nil
}

// RenderDate runs the video assembler stage for a date and archives the
// rendered files when archival is enabled.
func (a *App) RenderDate(ctx context.Context, date string) (int, error) {
	ctx, span := a.tracer.Start(ctx, "generate_videos")
	defer span.End()

	rendered, err := a.renderer.RenderDate(ctx, date)
	if err != nil {
		return 0, err
	}

	for _, ev := range rendered {
		a.archiveVideo(ctx, ev)
		a.emit(ctx, PipelineEvent{Stage: StageVideoRendered, EventID: ev.ID.String(), Date: date, VideoFile: ev.VideoFile})
	}
	return len(rendered), nil
}

// UploadDate runs the publisher stage for a date. The YouTube client is
// built here so the other stages never require upload credentials.
func (a *App) UploadDate(ctx context.Context, date string) ([]*event.Event, error) {
	ctx, span := a.tracer.Start(ctx, "upload_videos_to_youtube")
	defer span.End()

	auth, err := publish.NewAuthenticator(a.cfg.YouTube, a.logger)
	if err != nil {
		return nil, err
	}

	publisher := publish.New(publish.Params{
		Uploader: publish.NewYouTubeUploader(auth, a.logger),
		Store:    a.store,
		Config:   a.cfg.YouTube,
		Logger:   a.logger,
	})

	uploaded, err := publisher.UploadDate(ctx, date)
	for _, ev := range uploaded {
		a.emit(ctx, PipelineEvent{Stage: StageVideoUploaded, EventID: ev.ID.String(), Date: date, VideoID: ev.YouTubeID})
	}
	return uploaded, err
}

// RunAll executes generate, render, and upload in order for a date.
func (a *App) RunAll(ctx context.Context, date string, approve generate.Approver) error {
	a.logger.Info("generating content", zap.String("date", date))

	if _, err := a.GenerateEvents(ctx, date, approve); err != nil {
		return fmt.Errorf("generate events: %w", err)
	}
	if _, err := a.RenderDate(ctx, date); err != nil {
		return fmt.Errorf("generate videos: %w", err)
	}
	if _, err := a.UploadDate(ctx, date); err != nil {
		return fmt.Errorf("upload videos: %w", err)
	}

	a.logger.Info("content generated", zap.String("date", date))
	return nil
}

// Close releases producers, archive connections, and the tracer provider.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			firstErr = err
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := a.traceShutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (a *App) emit(ctx context.Context, pe PipelineEvent) {
	if a.producer == nil {
		return
	}
	pe.At = time.Now().UTC()

	payload, err := json.Marshal(pe)
	if err != nil {
		a.logger.Error("marshal pipeline event", zap.Error(err))
		return
	}
	headers := map[string]string{"event_type": pe.Stage}
	if err := a.producer.Publish(ctx, []byte(pe.EventID), payload, headers); err != nil {
		a.logger.Error("publish pipeline event", zap.String("stage", pe.Stage), zap.Error(err))
	}
}

// archiveVideo mirrors a rendered short into the object store bucket.
func (a *App) archiveVideo(ctx context.Context, ev *event.Event) {
	if a.archive == nil {
		return
	}
	key := path.Join(ev.Date, ev.ID.String(), "video.mp4")
	if err := a.archive.PutFile(ctx, key, a.store.Abs(ev.VideoFile), "video/mp4"); err != nil {
		a.logger.Error("archive video failed",
			zap.String("event_id", ev.ID.String()), zap.String("key", key), zap.Error(err))
		return
	}
	a.logger.Info("video archived", zap.String("key", key))
}
