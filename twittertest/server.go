package twittertest

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// NotFoundBody is the reply to requests for unregistered routes.
const NotFoundBody = `{"errors":[{"message":"Sorry, that page does not exist","code":34}]}`

// Reply is a canned response.
type Reply struct {
	Status int
	// ContentType is sent as is; empty sends no Content-Type at all.
	ContentType string
	Body        string
	Header      http.Header
	// Delay holds the reply back, or until the client gives up.
	Delay time.Duration
}

// File is one uploaded file as the server received it.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// Request is one request as the server received it.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
	// Form holds url-encoded or multipart text fields.
	Form  url.Values
	Files []File
}

// Server is a fake API endpoint. It is safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Reply
	requests []Request
}

// NewServer starts a fake server that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := Start()
	t.Cleanup(s.Close)
	return s
}

// Start starts a fake server. The caller closes it.
func Start() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{routes: make(map[string]Reply)}

	engine := gin.New()
	engine.NoRoute(s.serve)
	s.Server = httptest.NewServer(engine)
	return s
}

// Handle registers reply for method and path.
func (s *Server) Handle(method, path string, reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeKey(method, path)] = reply
}

// JSON registers a JSON reply.
func (s *Server) JSON(method, path string, status int, body string) {
	s.Handle(method, path, Reply{Status: status, ContentType: "application/json; charset=utf-8", Body: body})
}

// Requests returns every request received so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset forgets routes and recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = make(map[string]Reply)
	s.requests = nil
}

func (s *Server) serve(c *gin.Context) {
	recorded := record(c)

	s.mu.Lock()
	s.requests = append(s.requests, recorded)
	reply, ok := s.routes[routeKey(recorded.Method, recorded.Path)]
	s.mu.Unlock()

	if !ok {
		reply = Reply{Status: http.StatusNotFound, ContentType: "application/json; charset=utf-8", Body: NotFoundBody}
	}

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	write(c, reply)
}

func record(c *gin.Context) Request {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	r := Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Body:   body,
		Form:   make(url.Values),
	}

	contentType := c.ContentType()
	switch {
	case strings.HasPrefix(contentType, "multipart/"):
		form, err := c.MultipartForm()
		if err != nil {
			break
		}
		for k, vs := range form.Value {
			r.Form[k] = append(r.Form[k], vs...)
		}
		for field, headers := range form.File {
			for _, fh := range headers {
				r.Files = append(r.Files, readFile(field, fh))
			}
		}
	case contentType == "application/x-www-form-urlencoded":
		if values, err := url.ParseQuery(string(body)); err == nil {
			r.Form = values
		}
	}
	return r
}

func readFile(field string, fh *multipart.FileHeader) File {
	f := File{Field: field, Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type")}
	if rc, err := fh.Open(); err == nil {
		f.Content, _ = io.ReadAll(rc)
		_ = rc.Close()
	}
	return f
}

func write(c *gin.Context, reply Reply) {
	header := c.Writer.Header()
	for k, vs := range reply.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	if reply.ContentType != "" {
		header.Set("Content-Type", reply.ContentType)
	} else {
		header["Content-Type"] = nil
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.Status(status)
	c.Writer.WriteHeaderNow()
	if reply.Body != "" {
		_, _ = c.Writer.WriteString(reply.Body)
	}
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// RateLimitHeaders returns the headers Twitter sends with the state of
// the caller's rate-limit window.
func RateLimitHeaders(limit, remaining int, reset time.Time) http.Header {
	h := make(http.Header)
	h.Set("X-Rate-Limit-Limit", strconv.Itoa(limit))
	h.Set("X-Rate-Limit-Remaining", strconv.Itoa(remaining))
	h.Set("X-Rate-Limit-Reset", strconv.FormatInt(reset.Unix(), 10))
	return h
}
