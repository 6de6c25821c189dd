package twitter

import (
	"time"

	"github.com/kbukum/twitterkit/resilience"
)

// RetryConfig returns a caller-side retry policy for API calls: it
// retries server errors, rate limiting and transient transport failures,
// and waits for the rate-limit window to reset when the response said
// when that is.
//
//	resp, err := resilience.Retry(ctx, twitter.RetryConfig(), func(ctx context.Context) (*twitter.Response, error) {
//	    return client.Get(ctx, path, params)
//	})
func RetryConfig() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	cfg.WaitFor = RetryAfter
	cfg.MaxBackoff = 15 * time.Minute
	return cfg
}
