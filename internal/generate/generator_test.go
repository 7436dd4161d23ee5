package generate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/internal/storage/eventstore"
	"github.com/your-org/historyshorts/pkg/config"
)

// fakeAI returns canned responses and records the prompts it saw.
type fakeAI struct {
	completions int
	systems     []string
	failImages  bool
}

func (f *fakeAI) Completion(_ context.Context, system, _ string) (string, error) {
	f.completions++
	f.systems = append(f.systems, system)
	switch {
	case system == titlePrompt:
		return "Metro Opens", nil
	case strings.HasPrefix(system, "\nGet"): // tag and description prompts
		return "metro, transport, city", nil
	default:
		return fmt.Sprintf("event text %d", f.completions), nil
	}
}

func (f *fakeAI) Speech(context.Context, string, string) ([]byte, error) {
	return []byte("mp3"), nil
}

func (f *fakeAI) Transcribe(context.Context, []byte) (*event.Transcription, error) {
	return &event.Transcription{
		Text:     "event text",
		Duration: 10,
		Segments: []event.Segment{
			{ID: 0, Start: 0, End: 4, Text: "event"},
			{ID: 1, Start: 4, End: 10, Text: "text"},
		},
	}, nil
}

func (f *fakeAI) Image(context.Context, string) ([]byte, error) {
	if f.failImages {
		return nil, fmt.Errorf("rate limited")
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func newTestGenerator(t *testing.T, ai AI, cfg config.EventsConfig) (*Generator, *eventstore.Store) {
	t.Helper()
	store, err := eventstore.New(t.TempDir())
	require.NoError(t, err)
	return New(Params{AI: ai, Store: store, Config: cfg, Logger: zap.NewNop()}), store
}

func TestGenerateEvents(t *testing.T) {
	fake := &fakeAI{}
	gen, store := newTestGenerator(t, fake, config.EventsConfig{
		NumEvents: 2, WordsCount: 30, MaxImages: 5,
	})

	events, err := gen.GenerateEvents(context.Background(), "2024-05-01", ApproveAll)
	require.NoError(t, err)
	require.Len(t, events, 2)

	for _, ev := range events {
		assert.Equal(t, "Metro Opens", ev.Title)
		assert.NotEmpty(t, ev.Description)
		assert.NotEmpty(t, ev.Tags)
		assert.Contains(t, Voices, ev.Voice)
		assert.Equal(t, 10.0, ev.Duration)
		assert.Len(t, ev.Images, 2) // one per segment
		assert.FileExists(t, store.Abs(ev.TextFile))
		assert.FileExists(t, store.Abs(ev.SpeechFile))
		assert.FileExists(t, store.Abs(ev.TranscriptionFile))
	}

	// The second event prompt must carry the first event's text.
	assert.Contains(t, fake.systems[len(fake.systems)-4], "event text 1")

	loaded, err := store.LoadEvents("2024-05-01")
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestGenerateEventsRejection(t *testing.T) {
	gen, store := newTestGenerator(t, &fakeAI{}, config.EventsConfig{
		NumEvents: 2, WordsCount: 30, MaxImages: 5,
	})

	rejectAll := func(string, int, int) bool { return false }
	events, err := gen.GenerateEvents(context.Background(), "2024-05-01", rejectAll)
	require.NoError(t, err)
	assert.Empty(t, events)

	loaded, err := store.LoadEvents("2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestGenerateEventsImageCap(t *testing.T) {
	gen, _ := newTestGenerator(t, &fakeAI{}, config.EventsConfig{
		NumEvents: 1, WordsCount: 30, MaxImages: 1,
	})

	events, err := gen.GenerateEvents(context.Background(), "2024-05-01", ApproveAll)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, events[0].Images, 1)
}

func TestGenerateEventsImageFailureSkipsEvent(t *testing.T) {
	gen, store := newTestGenerator(t, &fakeAI{failImages: true}, config.EventsConfig{
		NumEvents: 1, WordsCount: 30, MaxImages: 5,
	})

	events, err := gen.GenerateEvents(context.Background(), "2024-05-01", ApproveAll)
	require.NoError(t, err)
	assert.Empty(t, events)

	loaded, err := store.LoadEvents("2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFromText(t *testing.T) {
	gen, store := newTestGenerator(t, &fakeAI{}, config.EventsConfig{
		NumEvents: 2, WordsCount: 30, MaxImages: 5,
	})

	ev, err := gen.FromText(context.Background(), "2024-05-01", "A custom historical note.")
	require.NoError(t, err)

	assert.Equal(t, "A custom historical note.", ev.Text)
	assert.NotEmpty(t, ev.Title)
	assert.True(t, ev.Renderable())
	assert.FileExists(t, store.Abs(ev.SpeechFile))
}

func TestFromTextEmpty(t *testing.T) {
	gen, _ := newTestGenerator(t, &fakeAI{}, config.EventsConfig{NumEvents: 1})

	_, err := gen.FromText(context.Background(), "2024-05-01", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitTags("a, b ,c"))
	assert.Equal(t, []string{"solo"}, splitTags("solo"))
	assert.Empty(t, splitTags(" , "))
}
