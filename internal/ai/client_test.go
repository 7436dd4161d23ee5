package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/your-org/historyshorts/pkg/config"
)

func newTestClient(maxRetries uint) *Client {
	return New(config.OpenAIConfig{
		APIKey:         "test-key",
		RequestTimeout: time.Second,
		MaxRetries:     maxRetries,
	}, zap.NewNop())
}

func TestRetryCallRecoversFromTransientFailure(t *testing.T) {
	c := newTestClient(3)

	calls := 0
	out, err := retryCall(context.Background(), c, "op", func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", fmt.Errorf("temporarily unavailable")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, calls)
}

func TestRetryCallBoundedByMaxRetries(t *testing.T) {
	c := newTestClient(3)

	calls := 0
	_, err := retryCall(context.Background(), c, "op", func(context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("still failing")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryCallPermanentErrorShortCircuits(t *testing.T) {
	c := newTestClient(5)

	calls := 0
	_, err := retryCall(context.Background(), c, "op", func(context.Context) (string, error) {
		calls++
		return "", backoff.Permanent(fmt.Errorf("empty response"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWrapRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		permanent bool
	}{
		{"bad request is permanent", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, true},
		{"unauthorized is permanent", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, true},
		{"rate limit is retryable", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, false},
		{"server error is retryable", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, false},
		{"transport error is retryable", fmt.Errorf("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapRetryable("chat completion", tt.err)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "chat completion")

			var perm *backoff.PermanentError
			assert.Equal(t, tt.permanent, errors.As(err, &perm))
		})
	}
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if hits < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	c := newTestClient(3)
	data, err := c.download(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
	assert.Equal(t, 2, hits)
}

func TestDownloadFailsFastOnNotFound(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(5)
	_, err := c.download(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, 1, hits)
}
