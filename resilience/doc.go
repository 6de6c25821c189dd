// Package resilience retries failed API calls with exponential backoff.
//
// Retry is caller-side: the request pipeline itself never retries.
// Wrap a call when a retry is wanted, and let RetryIf decide which
// failures qualify:
//
//	resp, err := resilience.Retry(ctx, cfg, func(ctx context.Context) (*twitter.Response, error) {
//	    return client.Get(ctx, "/1.1/statuses/show.json", params)
//	})
//
// WaitFor lets the caller replace the computed backoff for a given
// error, e.g. to sleep until a rate-limit window resets.
package resilience
