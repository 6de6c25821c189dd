package twitter

import (
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/twitterkit/validation"
)

func mapEnv(m map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

var testEnv = map[string]string{
	EnvConsumerKey:      "ck",
	EnvConsumerSecret:   "cs",
	EnvOAuthToken:       "tok",
	EnvOAuthTokenSecret: "toksecret",
}

func TestDefaults(t *testing.T) {
	cfg := Defaults(mapEnv(testEnv))

	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("expected endpoint %q, got %q", DefaultEndpoint, cfg.Endpoint)
	}
	if cfg.MediaEndpoint != DefaultMediaEndpoint {
		t.Errorf("expected media endpoint %q, got %q", DefaultMediaEndpoint, cfg.MediaEndpoint)
	}
	opts := cfg.ConnectionOptions
	if opts.OpenTimeout != 5*time.Second || opts.Timeout != 10*time.Second {
		t.Errorf("unexpected timeouts: open=%v timeout=%v", opts.OpenTimeout, opts.Timeout)
	}
	if opts.Headers["Accept"] != "application/json" {
		t.Errorf("expected JSON accept header, got %q", opts.Headers["Accept"])
	}
	if !strings.HasPrefix(opts.Headers["User-Agent"], "Twitter Go Client ") {
		t.Errorf("unexpected user agent %q", opts.Headers["User-Agent"])
	}
	if opts.SSL.Verify {
		t.Error("expected peer verification to be off by default")
	}
	if !opts.Raw {
		t.Error("expected raw to be on by default")
	}

	want := Credentials{ConsumerKey: "ck", ConsumerSecret: "cs", OAuthToken: "tok", OAuthTokenSecret: "toksecret"}
	if got := cfg.Credentials(); got != want {
		t.Errorf("expected credentials %+v, got %+v", want, got)
	}
	if !cfg.HasCredentials() || !cfg.HasUserToken() {
		t.Error("expected credentials and user token")
	}

	wantStack := []string{
		"multipart_with_file", "multipart", "url_encoded",
		"raise_client_error", "raise_server_error", "parse_json", "rate_limit",
	}
	if got := cfg.Middleware.Names(); !slices.Equal(got, wantStack) {
		t.Errorf("expected stack %v, got %v", wantStack, got)
	}
}

func TestDefaults_MissingEnv(t *testing.T) {
	for name, env := range map[string]EnvLookup{
		"nil":   nil,
		"empty": mapEnv(nil),
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Defaults(env)
			if cfg.Credentials() != (Credentials{}) {
				t.Errorf("expected empty credentials, got %+v", cfg.Credentials())
			}
			if cfg.HasCredentials() {
				t.Error("expected no credentials")
			}
		})
	}
}

func TestConfiguration_ResetRestoresDefaults(t *testing.T) {
	cfg := NewConfiguration(mapEnv(testEnv))
	want := cfg.Options()

	cfg.Configure(func(c *Configuration) {
		c.Endpoint = "http://localhost:9999"
		c.ConsumerKey = "other"
		c.ConnectionOptions.Timeout = time.Minute
		c.ConnectionOptions.Headers["X-Extra"] = "1"
		c.Middleware = c.Middleware.Append(ParseJSON{Force: true})
	})
	if reflect.DeepEqual(cfg.Options(), want) {
		t.Fatal("expected configure to change the options")
	}

	got := cfg.Reset()
	if got != cfg {
		t.Error("expected reset to return the receiver")
	}
	if !reflect.DeepEqual(cfg.Options(), want) {
		t.Errorf("expected reset options\n%#v\ngot\n%#v", want, cfg.Options())
	}
}

func TestConfiguration_ResetRereadsEnv(t *testing.T) {
	env := map[string]string{EnvConsumerKey: "first"}
	cfg := NewConfiguration(mapEnv(env))

	env[EnvConsumerKey] = "second"
	cfg.Reset()
	if cfg.ConsumerKey != "second" {
		t.Errorf("expected reset to read the environment again, got %q", cfg.ConsumerKey)
	}
}

func TestConfiguration_ConfigureIdentity(t *testing.T) {
	cfg := NewConfiguration(mapEnv(testEnv))
	before := cfg.Options()

	got := cfg.Configure(func(c *Configuration) { c.ConsumerKey = "changed" })
	if got != cfg {
		t.Error("expected configure to return the receiver")
	}

	after := cfg.Options()
	if after[OptionConsumerKey] != "changed" {
		t.Errorf("expected consumer key to change, got %v", after[OptionConsumerKey])
	}
	for _, key := range ValidOptionKeys() {
		if key == OptionConsumerKey {
			continue
		}
		if !reflect.DeepEqual(before[key], after[key]) {
			t.Errorf("expected %s to be untouched", key)
		}
	}

	if cfg.Configure(nil) != cfg {
		t.Error("expected nil configure to return the receiver")
	}
}

func TestConfiguration_OptionsSnapshot(t *testing.T) {
	cfg := NewConfiguration(nil)
	opts := cfg.Options()

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if !slices.Equal(keys, ValidOptionKeys()) {
		t.Errorf("expected keys %v, got %v", ValidOptionKeys(), keys)
	}

	conn := opts[OptionConnectionOptions].(ConnectionOptions)
	conn.Headers["Accept"] = "text/plain"
	stack := opts[OptionMiddleware].(Stack)
	stack[0] = nil

	if cfg.ConnectionOptions.Headers["Accept"] != DefaultAccept {
		t.Error("expected snapshot headers to be a copy")
	}
	if cfg.Middleware[0] == nil {
		t.Error("expected snapshot stack to be a copy")
	}
}

func TestConfiguration_Clone(t *testing.T) {
	cfg := NewConfiguration(mapEnv(testEnv))
	clone := cfg.Clone()
	clone.ConnectionOptions.Headers["Accept"] = "text/plain"
	clone.Endpoint = "http://other"

	if cfg.ConnectionOptions.Headers["Accept"] != DefaultAccept || cfg.Endpoint != DefaultEndpoint {
		t.Error("expected clone to be independent")
	}
	clone.Reset()
	if clone.ConsumerKey != "ck" {
		t.Error("expected clone to keep the environment lookup")
	}
}

func TestConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
		field  string
	}{
		{"defaults", func(*Configuration) {}, ""},
		{"missing endpoint", func(c *Configuration) { c.Endpoint = "" }, "endpoint"},
		{"bad media endpoint", func(c *Configuration) { c.MediaEndpoint = "upload" }, "media_endpoint"},
		{"zero timeout", func(c *Configuration) { c.ConnectionOptions.Timeout = 0 }, "connection_options.timeout"},
		{"zero open timeout", func(c *Configuration) { c.ConnectionOptions.OpenTimeout = 0 }, "connection_options.open_timeout"},
		{"key without secret", func(c *Configuration) { c.ConsumerKey = "ck" }, "consumer_secret"},
		{"token without secret", func(c *Configuration) { c.OAuthToken = "tok" }, "oauth_token_secret"},
		{"no middleware", func(c *Configuration) { c.Middleware = nil }, "middleware"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfiguration(nil)
			tc.mutate(cfg)
			err := cfg.Validate()

			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			verr, ok := err.(*validation.ValidationError)
			if !ok {
				t.Fatalf("expected *validation.ValidationError, got %T (%v)", err, err)
			}
			if !verr.Has(tc.field) {
				t.Errorf("expected %s to fail, got %v", tc.field, verr)
			}
		})
	}
}

func TestConfigure_DoesNotValidate(t *testing.T) {
	cfg := NewConfiguration(nil)
	cfg.Configure(func(c *Configuration) { c.Endpoint = "not a url" })
	if cfg.Endpoint != "not a url" {
		t.Error("expected configure to accept any value")
	}
}

func TestConfiguration_BearerToken(t *testing.T) {
	cfg := NewConfiguration(mapEnv(map[string]string{EnvBearerToken: "app"}))
	if cfg.BearerToken != "app" || !cfg.HasBearerToken() {
		t.Errorf("expected the bearer token from env, got %q", cfg.BearerToken)
	}
	if cfg.HasCredentials() {
		t.Error("a bearer token is not an OAuth credential")
	}
	if got := cfg.Options()[OptionBearerToken]; got != "app" {
		t.Errorf("expected bearer_token in the snapshot, got %v", got)
	}
}
