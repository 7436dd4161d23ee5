package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v5"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/pkg/config"
)

// Client wraps the OpenAI API behind the narrow surface the pipeline needs:
// chat completions, speech synthesis, transcription, and image generation.
// Every call retries transient failures with exponential backoff.
type Client struct {
	api  *openai.Client
	http *http.Client
	cfg  config.OpenAIConfig
	log  *zap.Logger
}

// New constructs a Client from configuration.
func New(cfg config.OpenAIConfig, log *zap.Logger) *Client {
	return &Client{
		api:  openai.NewClient(cfg.APIKey),
		http: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:  cfg,
		log:  log,
	}
}

// Completion sends a system+user chat exchange and returns the trimmed reply.
func (c *Client) Completion(ctx context.Context, system, user string) (string, error) {
	return retryCall(ctx, c, "completion", func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.cfg.CompletionModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return "", wrapRetryable("chat completion", err)
		}
		if len(resp.Choices) == 0 {
			return "", backoff.Permanent(fmt.Errorf("chat completion: empty response"))
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
}

// Speech synthesizes narration audio (mp3) for the given text and voice.
func (c *Client) Speech(ctx context.Context, text, voice string) ([]byte, error) {
	return retryCall(ctx, c, "speech", func(ctx context.Context) ([]byte, error) {
		resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          openai.SpeechModel(c.cfg.TTSModel),
			Input:          text,
			Voice:          openai.SpeechVoice(voice),
			ResponseFormat: openai.SpeechResponseFormatMp3,
		})
		if err != nil {
			return nil, wrapRetryable("create speech", err)
		}
		defer resp.Close()
		audio, err := io.ReadAll(resp)
		if err != nil {
			return nil, fmt.Errorf("read speech body: %w", err)
		}
		return audio, nil
	})
}

// Transcribe requests a verbose transcription of the narration audio so the
// renderer gets per-segment timings.
func (c *Client) Transcribe(ctx context.Context, speech []byte) (*event.Transcription, error) {
	return retryCall(ctx, c, "transcription", func(ctx context.Context) (*event.Transcription, error) {
		resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
			Model:    c.cfg.TranscriptionModel,
			FilePath: "narration.mp3",
			Reader:   bytes.NewReader(speech),
			Language: "en",
			Format:   openai.AudioResponseFormatVerboseJSON,
		})
		if err != nil {
			return nil, wrapRetryable("create transcription", err)
		}
		return mapTranscription(resp), nil
	})
}

// Image generates one image for the prompt and downloads its content.
func (c *Client) Image(ctx context.Context, prompt string) ([]byte, error) {
	url, err := retryCall(ctx, c, "image", func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
			Model:          c.cfg.ImageModel,
			Prompt:         prompt,
			Size:           c.cfg.ImageSize,
			Quality:        openai.CreateImageQualityHD,
			N:              1,
			ResponseFormat: openai.CreateImageResponseFormatURL,
		})
		if err != nil {
			return "", wrapRetryable("create image", err)
		}
		if len(resp.Data) == 0 || resp.Data[0].URL == "" {
			return "", backoff.Permanent(fmt.Errorf("create image: no url in response"))
		}
		return resp.Data[0].URL, nil
	})
	if err != nil {
		return nil, err
	}
	return c.download(ctx, url)
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	return retryCall(ctx, c, "image download", func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download image: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("download image: unexpected status %s", resp.Status)
			if permanentStatus(resp.StatusCode) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return io.ReadAll(resp.Body)
	})
}

// retryCall runs op with per-attempt timeouts and bounded exponential backoff.
func retryCall[T any](ctx context.Context, c *Client, name string, op func(context.Context) (T, error)) (T, error) {
	attempt := func() (T, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()

		out, err := op(callCtx)
		if err != nil {
			c.log.Warn("openai call failed", zap.String("call", name), zap.Error(err))
		}
		return out, err
	}

	return backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.cfg.MaxRetries),
	)
}

// wrapRetryable wraps an SDK error, marking client errors other than 429
// permanent so they fail without burning retry attempts.
func wrapRetryable(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && permanentStatus(apiErr.HTTPStatusCode) {
		return backoff.Permanent(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func permanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

func mapTranscription(resp openai.AudioResponse) *event.Transcription {
	tr := &event.Transcription{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
		Segments: make([]event.Segment, 0, len(resp.Segments)),
	}
	for _, seg := range resp.Segments {
		tr.Segments = append(tr.Segments, event.Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return tr
}
