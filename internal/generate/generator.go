package generate

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/internal/storage/eventstore"
	"github.com/your-org/historyshorts/pkg/config"
)

// AI is the slice of the model API the generator depends on.
type AI interface {
	Completion(ctx context.Context, system, user string) (string, error)
	Speech(ctx context.Context, text, voice string) ([]byte, error)
	Transcribe(ctx context.Context, speech []byte) (*event.Transcription, error)
	Image(ctx context.Context, prompt string) ([]byte, error)
}

// Approver decides whether a generated text becomes an event. Index and total
// let interactive callers show progress.
type Approver func(text string, index, total int) bool

// ApproveAll accepts every generated text.
func ApproveAll(string, int, int) bool { return true }

// Generator is the event source stage: it produces Event records for a date
// from the model API and persists them with all their media assets.
type Generator struct {
	ai     AI
	store  *eventstore.Store
	cfg    config.EventsConfig
	logger *zap.Logger
}

type Params struct {
	AI     AI
	Store  *eventstore.Store
	Config config.EventsConfig
	Logger *zap.Logger
}

// New constructs a Generator.
func New(p Params) *Generator {
	return &Generator{
		ai:     p.AI,
		store:  p.Store,
		cfg:    p.Config,
		logger: p.Logger,
	}
}

// GenerateEvents produces up to cfg.NumEvents events for the date. Texts
// already generated in this run are fed back into the prompt so the model
// does not repeat itself. A rejected or failed event is skipped, not fatal.
func (g *Generator) GenerateEvents(ctx context.Context, date string, approve Approver) ([]*event.Event, error) {
	if approve == nil {
		approve = ApproveAll
	}

	var (
		events     []*event.Event
		todayTexts []string
	)

	for i := 0; i < g.cfg.NumEvents; i++ {
		system := buildEventPrompt(date, g.cfg.WordsCount, todayTexts)
		text, err := g.ai.Completion(ctx, system, eventUserPrompt)
		if err != nil {
			return events, fmt.Errorf("generate event text: %w", err)
		}
		todayTexts = append(todayTexts, text)

		if !approve(text, i+1, g.cfg.NumEvents) {
			g.logger.Info("event text rejected", zap.String("date", date), zap.Int("index", i+1))
			continue
		}

		ev, err := g.buildEvent(ctx, date, text)
		if err != nil {
			g.logger.Error("event generation failed", zap.String("date", date), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

// FromText produces a single event for the date from caller-supplied text.
func (g *Generator) FromText(ctx context.Context, date, text string) (*event.Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("event text is empty")
	}
	return g.buildEvent(ctx, date, text)
}

// buildEvent runs the enrichment chain for one text: persist the text,
// request title/description/tags, synthesize and transcribe narration, and
// generate background images. The event record is written last.
func (g *Generator) buildEvent(ctx context.Context, date, text string) (*event.Event, error) {
	ev := event.New(date)
	ev.Text = text

	rel, err := g.store.SaveText(date, ev.ID, text)
	if err != nil {
		return nil, err
	}
	ev.TextFile = rel

	if err := g.requestMetadata(ctx, ev); err != nil {
		return nil, err
	}

	if err := g.requestNarration(ctx, ev); err != nil {
		return nil, err
	}

	if err := g.requestImages(ctx, ev); err != nil {
		return nil, err
	}

	if err := g.store.SaveEvent(ev); err != nil {
		return nil, err
	}

	g.logger.Info("event generated",
		zap.String("event_id", ev.ID.String()),
		zap.String("date", date),
		zap.String("title", ev.Title),
		zap.Float64("duration", ev.Duration),
		zap.Int("images", len(ev.Images)),
	)
	return ev, nil
}

func (g *Generator) requestMetadata(ctx context.Context, ev *event.Event) error {
	title, err := g.ai.Completion(ctx, titlePrompt, ev.Text)
	if err != nil {
		return fmt.Errorf("generate title: %w", err)
	}
	ev.Title = title

	description, err := g.ai.Completion(ctx, buildDescriptionPrompt(strings.Fields(title)), ev.Text)
	if err != nil {
		return fmt.Errorf("generate description: %w", err)
	}
	ev.Description = description

	rawTags, err := g.ai.Completion(ctx, buildTagsPrompt(nil), ev.Text)
	if err != nil {
		return fmt.Errorf("generate tags: %w", err)
	}
	ev.Tags = splitTags(rawTags)

	return nil
}

func (g *Generator) requestNarration(ctx context.Context, ev *event.Event) error {
	ev.Voice = PickVoice()

	speech, err := g.ai.Speech(ctx, ev.Text, ev.Voice)
	if err != nil {
		return fmt.Errorf("generate speech: %w", err)
	}
	rel, err := g.store.SaveSpeech(ev.Date, ev.ID, bytes.NewReader(speech))
	if err != nil {
		return err
	}
	ev.SpeechFile = rel

	tr, err := g.ai.Transcribe(ctx, speech)
	if err != nil {
		return fmt.Errorf("transcribe speech: %w", err)
	}
	ev.Transcription = tr
	ev.Duration = tr.Duration

	rel, err = g.store.SaveTranscription(ev.Date, ev.ID, tr)
	if err != nil {
		return err
	}
	ev.TranscriptionFile = rel

	return nil
}

// requestImages generates one background image per transcription segment,
// capped by configuration (the image API rate limit is the constraint).
func (g *Generator) requestImages(ctx context.Context, ev *event.Event) error {
	if ev.Transcription == nil {
		return fmt.Errorf("transcription is missing")
	}

	count := len(ev.Transcription.Segments)
	if count > g.cfg.MaxImages {
		count = g.cfg.MaxImages
	}

	for i := 0; i < count; i++ {
		data, err := g.ai.Image(ctx, ev.Text)
		if err != nil {
			return fmt.Errorf("generate image %d: %w", i, err)
		}
		rel, err := g.store.SaveImage(ev.Date, ev.ID, fmt.Sprintf("image_%d.png", i), data)
		if err != nil {
			return err
		}
		ev.Images = append(ev.Images, rel)
	}

	return nil
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
