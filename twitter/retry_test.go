package twitter

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/kbukum/twitterkit/resilience"
	"github.com/kbukum/twitterkit/twittertest"
)

func TestRetryConfig(t *testing.T) {
	cfg := RetryConfig()
	if cfg.RetryIf == nil || cfg.WaitFor == nil {
		t.Fatal("expected retry hooks to be set")
	}
	if cfg.RetryIf(&Error{Code: ErrCodeClient, StatusCode: http.StatusNotFound}) {
		t.Error("expected a 404 not to be retried")
	}
	if !cfg.RetryIf(&Error{Code: ErrCodeServer, StatusCode: http.StatusBadGateway}) {
		t.Error("expected a 502 to be retried")
	}
}

func TestRetryConfig_RetriesServerErrors(t *testing.T) {
	srv := twittertest.NewServer(t)
	srv.Handle(http.MethodGet, "/flaky", twittertest.Reply{Status: http.StatusBadGateway})
	c := newTestClient(t, srv, nil)

	cfg := RetryConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.Jitter = 0
	var retries int
	cfg.OnRetry = func(int, error, time.Duration) {
		retries++
		if retries == 1 {
			srv.JSON(http.MethodGet, "/flaky", http.StatusOK, `{"ok":true}`)
		}
	}

	resp, err := resilience.Retry(context.Background(), cfg, func(ctx context.Context) (*Response, error) {
		return c.Get(ctx, "/flaky", nil)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m, _ := resp.Map(); m["ok"] != true {
		t.Errorf("unexpected response %v", resp.Data)
	}
	if retries != 1 || len(srv.Requests()) != 2 {
		t.Errorf("expected one retry, got retries=%d requests=%d", retries, len(srv.Requests()))
	}
}
