package twitter

import (
	"maps"
	"time"

	"github.com/kbukum/twitterkit/validation"
	"github.com/kbukum/twitterkit/version"
)

// Defaults for a reset Configuration.
const (
	DefaultEndpoint      = "https://api.twitter.com"
	DefaultMediaEndpoint = "https://upload.twitter.com"
	DefaultOpenTimeout   = 5 * time.Second
	DefaultTimeout       = 10 * time.Second
	DefaultAccept        = "application/json"
	userAgentProduct     = "Twitter Go Client"
)

// Environment keys read for credential defaults.
const (
	EnvConsumerKey      = "TWITTER_CONSUMER_KEY"
	EnvConsumerSecret   = "TWITTER_CONSUMER_SECRET"
	EnvOAuthToken       = "TWITTER_OAUTH_TOKEN"
	EnvOAuthTokenSecret = "TWITTER_OAUTH_TOKEN_SECRET"
	EnvBearerToken      = "TWITTER_BEARER_TOKEN"
)

// Option keys of a configuration snapshot.
const (
	OptionBearerToken       = "bearer_token"
	OptionConnectionOptions = "connection_options"
	OptionConsumerKey       = "consumer_key"
	OptionConsumerSecret    = "consumer_secret"
	OptionEndpoint          = "endpoint"
	OptionMediaEndpoint     = "media_endpoint"
	OptionMiddleware        = "middleware"
	OptionOAuthToken        = "oauth_token"
	OptionOAuthTokenSecret  = "oauth_token_secret"
)

// ValidOptionKeys returns the keys of Options, sorted.
func ValidOptionKeys() []string {
	return []string{
		OptionBearerToken,
		OptionConnectionOptions,
		OptionConsumerKey,
		OptionConsumerSecret,
		OptionEndpoint,
		OptionMediaEndpoint,
		OptionMiddleware,
		OptionOAuthToken,
		OptionOAuthTokenSecret,
	}
}

// EnvLookup resolves an environment key. os.LookupEnv and
// (*config.Env).Lookup both satisfy it.
type EnvLookup func(key string) (string, bool)

// SSLOptions configures TLS peer verification.
type SSLOptions struct {
	Verify bool `json:"verify" yaml:"verify" mapstructure:"verify"`
}

// ConnectionOptions are passed to the transport unchanged.
type ConnectionOptions struct {
	Headers map[string]string `json:"headers" yaml:"headers" mapstructure:"headers"`
	// OpenTimeout bounds connection setup.
	OpenTimeout time.Duration `json:"open_timeout" yaml:"open_timeout" mapstructure:"open_timeout" validate:"gt=0"`
	// Timeout bounds the whole exchange.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
	SSL     SSLOptions    `json:"ssl" yaml:"ssl" mapstructure:"ssl"`
	// Raw keeps the raw response body next to the parsed one.
	Raw bool `json:"raw" yaml:"raw" mapstructure:"raw"`
}

// Clone returns a copy with its own Headers map.
func (o ConnectionOptions) Clone() ConnectionOptions {
	o.Headers = maps.Clone(o.Headers)
	return o
}

// Configuration holds everything a Client needs to talk to the API.
// It is not safe for concurrent mutation; callers synchronise Configure
// and Reset against in-flight requests.
type Configuration struct {
	ConnectionOptions ConnectionOptions `json:"connection_options"`
	ConsumerKey       string            `json:"consumer_key" validate:"required_with=ConsumerSecret"`
	ConsumerSecret    string            `json:"consumer_secret" validate:"required_with=ConsumerKey"`
	OAuthToken        string            `json:"oauth_token" validate:"required_with=OAuthTokenSecret"`
	OAuthTokenSecret  string            `json:"oauth_token_secret" validate:"required_with=OAuthToken"`
	// BearerToken authenticates application-only calls when no consumer
	// keys are set.
	BearerToken   string `json:"bearer_token"`
	Endpoint      string `json:"endpoint" validate:"required,http_url"`
	MediaEndpoint string `json:"media_endpoint" validate:"required,http_url"`
	Middleware    Stack  `json:"middleware" validate:"required"`

	env EnvLookup
}

// Defaults resolves the default configuration, reading credentials
// through env. A nil env, like a missing key, yields empty credentials.
func Defaults(env EnvLookup) Configuration {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		v, _ := env(key)
		return v
	}

	return Configuration{
		ConnectionOptions: ConnectionOptions{
			Headers: map[string]string{
				"Accept":     DefaultAccept,
				"User-Agent": version.UserAgent(userAgentProduct),
			},
			OpenTimeout: DefaultOpenTimeout,
			Timeout:     DefaultTimeout,
			SSL:         SSLOptions{Verify: false},
			Raw:         true,
		},
		ConsumerKey:      lookup(EnvConsumerKey),
		ConsumerSecret:   lookup(EnvConsumerSecret),
		OAuthToken:       lookup(EnvOAuthToken),
		OAuthTokenSecret: lookup(EnvOAuthTokenSecret),
		BearerToken:      lookup(EnvBearerToken),
		Endpoint:         DefaultEndpoint,
		MediaEndpoint:    DefaultMediaEndpoint,
		Middleware:       DefaultMiddleware(),
		env:              env,
	}
}

// NewConfiguration returns a reset configuration reading credentials
// through env.
func NewConfiguration(env EnvLookup) *Configuration {
	c := Defaults(env)
	return &c
}

// Reset sets every field back to its default and returns c.
func (c *Configuration) Reset() *Configuration {
	*c = Defaults(c.env)
	return c
}

// Configure runs fn against c and returns c. Nothing is validated; bad
// values surface when a request is made.
func (c *Configuration) Configure(fn func(*Configuration)) *Configuration {
	if fn != nil {
		fn(c)
	}
	return c
}

// Options returns a snapshot keyed by ValidOptionKeys. Values are copies:
// changing the snapshot never changes c.
func (c *Configuration) Options() map[string]any {
	return map[string]any{
		OptionBearerToken:       c.BearerToken,
		OptionConnectionOptions: c.ConnectionOptions.Clone(),
		OptionConsumerKey:       c.ConsumerKey,
		OptionConsumerSecret:    c.ConsumerSecret,
		OptionEndpoint:          c.Endpoint,
		OptionMediaEndpoint:     c.MediaEndpoint,
		OptionMiddleware:        c.Middleware.Clone(),
		OptionOAuthToken:        c.OAuthToken,
		OptionOAuthTokenSecret:  c.OAuthTokenSecret,
	}
}

// Clone returns a deep copy of c sharing only the environment lookup.
func (c *Configuration) Clone() *Configuration {
	out := *c
	out.ConnectionOptions = c.ConnectionOptions.Clone()
	out.Middleware = c.Middleware.Clone()
	return &out
}

// Validate checks c explicitly. Configure and Reset never call it.
func (c *Configuration) Validate() error {
	return validation.Validate(c)
}

// Credentials are the OAuth 1.0a keys of a configuration.
type Credentials struct {
	ConsumerKey      string
	ConsumerSecret   string
	OAuthToken       string
	OAuthTokenSecret string
}

// Credentials returns the configured keys.
func (c *Configuration) Credentials() Credentials {
	return Credentials{
		ConsumerKey:      c.ConsumerKey,
		ConsumerSecret:   c.ConsumerSecret,
		OAuthToken:       c.OAuthToken,
		OAuthTokenSecret: c.OAuthTokenSecret,
	}
}

// HasCredentials reports whether requests can be signed: both consumer
// keys are set.
func (c *Configuration) HasCredentials() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// HasBearerToken reports whether application-only auth is configured.
func (c *Configuration) HasBearerToken() bool {
	return c.BearerToken != ""
}

// HasUserToken reports whether an access token pair is set.
func (c *Configuration) HasUserToken() bool {
	return c.OAuthToken != "" && c.OAuthTokenSecret != ""
}
