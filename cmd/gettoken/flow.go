package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

const (
	authURL     = "https://secure.splitwise.com/oauth/authorize"
	tokenURL    = "https://secure.splitwise.com/oauth/token"
	callbackURL = "http://localhost:8080/callback"
	listenAddr  = "localhost:8080"

	flowTimeout = 5 * time.Minute
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>Splitwise authorization complete</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h1>Authorization successful</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>
`

func oauthConfig(key, secret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     key,
		ClientSecret: secret,
		RedirectURL:  callbackURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

type callbackResult struct {
	code string
	err  error
}

// callbackHandler accepts exactly one redirect carrying the expected state.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()

		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			res.err = errors.New("state mismatch")
		case q.Get("code") == "":
			res.err = errors.New("no authorization code in callback")
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(successPage))
		}

		select {
		case results <- res:
		default:
		}
	})
	return r
}

// waitForCode blocks until a callback arrives or ctx ends.
func waitForCode(ctx context.Context, results <-chan callbackResult) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("timed out waiting for authorization: %w", ctx.Err())
	case res := <-results:
		return res.code, res.err
	}
}

// runFlow drives the browser authorization and exchanges the code.
func runFlow(ctx context.Context, cfg *oauth2.Config, state string, open func(string) error, log *logging.Logger) (*oauth2.Token, error) {
	results := make(chan callbackResult, 1)

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("callback listener: %w", err)}:
			default:
			}
		}
	}()
	defer srv.Close()

	url := cfg.AuthCodeURL(state)
	log.Info("opening browser for authorization", "url", url)
	if err := open(url); err != nil {
		log.Warn("could not open browser; visit the URL manually", "url", url, "err", err)
	}

	ctx, cancel := context.WithTimeout(ctx, flowTimeout)
	defer cancel()

	code, err := waitForCode(ctx, results)
	if err != nil {
		return nil, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return token, nil
}
