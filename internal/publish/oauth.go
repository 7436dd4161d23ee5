package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/your-org/historyshorts/pkg/config"
)

const callbackPath = "/oauth2/callback"

// Authenticator manages the installed-app OAuth2 flow for the upload API:
// a cached token on disk, refresh via the token source, and a one-shot local
// callback server for first-time authorization.
type Authenticator struct {
	oauth     *oauth2.Config
	tokenFile string
	addr      string
	logger    *zap.Logger
}

// NewAuthenticator reads the OAuth client secret file and prepares the flow.
func NewAuthenticator(cfg config.YouTubeConfig, logger *zap.Logger) (*Authenticator, error) {
	secret, err := os.ReadFile(cfg.ClientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("read client secret %s: %w", cfg.ClientSecretFile, err)
	}

	oc, err := google.ConfigFromJSON(secret, cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}
	oc.RedirectURL = "http://" + cfg.CallbackAddr + callbackPath

	return &Authenticator{
		oauth:     oc,
		tokenFile: cfg.TokenFile,
		addr:      cfg.CallbackAddr,
		logger:    logger,
	}, nil
}

// Client returns an authenticated HTTP client, running the browser flow if
// no usable cached token exists. Refreshed tokens are persisted.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	token, err := a.loadToken()
	if err != nil {
		a.logger.Info("no cached token, starting authorization flow", zap.Error(err))
		token, err = a.authorize(ctx)
		if err != nil {
			return nil, err
		}
	}

	source := a.oauth.TokenSource(ctx, token)
	fresh, err := source.Token()
	if err != nil {
		// Refresh token revoked or expired; force a new authorization.
		a.logger.Warn("token refresh failed, re-authorizing", zap.Error(err))
		token, err = a.authorize(ctx)
		if err != nil {
			return nil, err
		}
		source = a.oauth.TokenSource(ctx, token)
		fresh = token
	}

	if fresh.AccessToken != token.AccessToken {
		if err := a.saveToken(fresh); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
	}

	return oauth2.NewClient(ctx, source), nil
}

// authorize runs the installed-app flow: print the consent URL, wait for the
// provider to redirect to the local callback server, exchange the code.
func (a *Authenticator) authorize(ctx context.Context) (*oauth2.Token, error) {
	state := uuid.NewString()
	authURL := a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)

	fmt.Printf("Open the following URL in your browser to authorize uploads:\n\n%s\n\n", authURL)

	code, err := a.waitForCode(ctx, state)
	if err != nil {
		return nil, err
	}

	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := a.saveToken(token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	a.logger.Info("authorization complete", zap.String("token_file", a.tokenFile))
	return token, nil
}

type callbackResult struct {
	code string
	err  error
}

// waitForCode serves the OAuth redirect on a local listener until a single
// callback arrives or the context is done.
func (a *Authenticator) waitForCode(ctx context.Context, state string) (string, error) {
	results := make(chan callbackResult, 1)

	router := chi.NewRouter()
	router.Get(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "invalid state, restart the authorization flow", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("oauth callback state mismatch")}
		case q.Get("error") != "":
			http.Error(w, "authorization was denied, you can close this tab", http.StatusUnauthorized)
			results <- callbackResult{err: fmt.Errorf("authorization denied: %s", q.Get("error"))}
		case q.Get("code") == "":
			http.Error(w, "authorization code missing", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("oauth callback without code")}
		default:
			fmt.Fprintln(w, "Authorization received, you can close this tab.")
			results <- callbackResult{code: q.Get("code")}
		}
	})

	server := &http.Server{Addr: a.addr, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			results <- callbackResult{err: fmt.Errorf("callback server: %w", err)}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-results:
		return result.code, result.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	payload, err := os.ReadFile(a.tokenFile)
	if err != nil {
		return nil, err
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal(payload, token); err != nil {
		return nil, fmt.Errorf("decode token file: %w", err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, errors.New("token file has no usable token")
	}
	return token, nil
}

func (a *Authenticator) saveToken(token *oauth2.Token) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(a.tokenFile, payload, 0o600)
}
