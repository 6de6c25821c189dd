// Package twitter holds the configuration store and request pipeline of
// a Twitter REST API client.
//
// A Client owns one Configuration: credentials, endpoints, connection
// options and the ordered middleware Stack that every request passes
// through. The default stack, outermost first, is
//
//	MultipartWithFile, Multipart, URLEncoded,
//	RaiseClientError, RaiseServerError, ParseJSON, RateLimitTracker
//
// so a request is normalised and encoded on the way out, and a response
// has its rate-limit headers recorded and its body parsed before the
// status classifiers decide whether to fail the call:
//
//	client := twitter.NewClient(twitter.WithEnv(env.Lookup))
//	resp, err := client.Get(ctx, "/1.1/statuses/show.json", twitter.Params{"id": 20})
//	if twitter.IsNotFound(err) {
//	    ...
//	}
//
// The pipeline never retries. Callers that want retries wrap calls with
// resilience.Retry using RetryConfig.
package twitter
