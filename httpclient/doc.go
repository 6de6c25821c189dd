// Package httpclient is the HTTP transport under the twitter pipeline.
//
// An Adapter turns an already encoded Request into one HTTP exchange and
// returns the raw Response. It owns connection concerns only: the open
// and total timeouts, TLS, default headers and request authentication,
// including OAuth 1.0a signing. Status codes are never classified here;
// a 404 is a successful exchange as far as the Adapter is concerned.
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    BaseURL:     "https://api.twitter.com",
//	    Timeout:     10 * time.Second,
//	    OpenTimeout: 5 * time.Second,
//	    Auth:        httpclient.OAuth1Auth(ck, cs, token, secret),
//	})
//
//	resp, err := adapter.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/1.1/statuses/show.json",
//	    Query:  url.Values{"id": {"20"}},
//	})
package httpclient
