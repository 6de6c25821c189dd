// Package twittertest provides an in-process fake of the Twitter REST API
// for tests.
//
// The fake is a gin engine behind an httptest.Server. Tests register
// canned replies per method and path, point a client at URL, and then
// inspect what the client actually sent:
//
//	srv := twittertest.NewServer(t)
//	srv.JSON(http.MethodGet, "/1.1/users/show.json", http.StatusOK, `{"id":42}`)
//
//	client := twitter.NewClient(twitter.WithEnv(nil))
//	client.Configure(func(c *twitter.Configuration) { c.Endpoint = srv.URL })
//
//	last, _ := srv.LastRequest()
//
// Requests to unregistered routes get Twitter's 404 reply. Reset clears
// routes and recorded requests between cases.
package twittertest
