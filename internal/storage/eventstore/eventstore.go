package eventstore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/your-org/historyshorts/internal/event"
)

const (
	textFileName          = "text.txt"
	speechFileName        = "tts.mp3"
	transcriptionFileName = "transcription.json"
	videoFileName         = "video.mp4"
	eventFileName         = "event.json"
	imagesDirName         = "images"
)

// Store persists events and their media assets on the local filesystem,
// one directory per event: <root>/<date>/<event-id>/.
type Store struct {
	root string
}

// New creates the events root directory if needed and returns a Store.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("events root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create events root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the events root directory.
func (s *Store) Root() string {
	return s.root
}

// Abs resolves a store-relative path to an absolute one.
func (s *Store) Abs(rel string) string {
	return filepath.Join(s.root, rel)
}

// EventDir returns the store-relative directory for an event.
func (s *Store) EventDir(date string, id uuid.UUID) string {
	return filepath.Join(date, id.String())
}

// VideoPath returns the store-relative path where the rendered video lives.
func (s *Store) VideoPath(date string, id uuid.UUID) string {
	return filepath.Join(s.EventDir(date, id), videoFileName)
}

// SaveText writes the narration text and returns its store-relative path.
func (s *Store) SaveText(date string, id uuid.UUID, text string) (string, error) {
	rel := filepath.Join(s.EventDir(date, id), textFileName)
	if err := s.writeFile(rel, []byte(text)); err != nil {
		return "", fmt.Errorf("save text: %w", err)
	}
	return rel, nil
}

// SaveSpeech streams the TTS audio to disk and returns its store-relative path.
func (s *Store) SaveSpeech(date string, id uuid.UUID, speech io.Reader) (string, error) {
	rel := filepath.Join(s.EventDir(date, id), speechFileName)
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("save speech: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("save speech: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, speech); err != nil {
		return "", fmt.Errorf("save speech: %w", err)
	}
	return rel, nil
}

// SaveTranscription writes the transcription JSON and returns its store-relative path.
func (s *Store) SaveTranscription(date string, id uuid.UUID, tr *event.Transcription) (string, error) {
	payload, err := json.MarshalIndent(tr, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal transcription: %w", err)
	}
	rel := filepath.Join(s.EventDir(date, id), transcriptionFileName)
	if err := s.writeFile(rel, payload); err != nil {
		return "", fmt.Errorf("save transcription: %w", err)
	}
	return rel, nil
}

// SaveImage writes one background image and returns its store-relative path.
func (s *Store) SaveImage(date string, id uuid.UUID, name string, data []byte) (string, error) {
	rel := filepath.Join(s.EventDir(date, id), imagesDirName, name)
	if err := s.writeFile(rel, data); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return rel, nil
}

// SaveEvent writes the event summary record (event.json).
func (s *Store) SaveEvent(ev *event.Event) error {
	payload, err := json.MarshalIndent(ev, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	rel := filepath.Join(s.EventDir(ev.Date, ev.ID), eventFileName)
	if err := s.writeFile(rel, payload); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// LoadEvents returns every stored event for a date, ordered by event id.
// A date with no events yields an empty slice.
func (s *Store) LoadEvents(date string) ([]*event.Event, error) {
	pattern := filepath.Join(s.root, date, "*", eventFileName)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob events: %w", err)
	}
	sort.Strings(matches)

	events := make([]*event.Event, 0, len(matches))
	for _, path := range matches {
		payload, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read event %s: %w", path, err)
		}
		ev := &event.Event{}
		if err := json.Unmarshal(payload, ev); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", path, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Store) writeFile(rel string, data []byte) error {
	abs := s.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, data, 0o644)
}
