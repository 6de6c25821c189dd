package httpclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/dghubble/oauth1"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone sends requests unauthenticated.
	AuthNone AuthType = iota
	// AuthBearer sends an application-only bearer token.
	AuthBearer
	// AuthOAuth1 signs each request with OAuth 1.0a HMAC-SHA1.
	AuthOAuth1
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token (AuthBearer) or the OAuth access token (AuthOAuth1).
	Token string
	// ConsumerKey, ConsumerSecret and TokenSecret complete the OAuth 1.0a
	// credentials (AuthOAuth1).
	ConsumerKey    string
	ConsumerSecret string
	TokenSecret    string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// OAuth1Auth creates an OAuth 1.0a user-context auth config. The access
// token pair may be empty for consumer-only signing.
func OAuth1Auth(consumerKey, consumerSecret, token, tokenSecret string) *AuthConfig {
	return &AuthConfig{
		Type:           AuthOAuth1,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		Token:          token,
		TokenSecret:    tokenSecret,
	}
}

func (a *AuthConfig) validate() error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		if a.Token == "" {
			return errors.New("bearer auth requires a token")
		}
	case AuthOAuth1:
		if a.ConsumerKey == "" || a.ConsumerSecret == "" {
			return errors.New("oauth1 auth requires consumer key and secret")
		}
	}
	return nil
}

// apply sets the bearer header on req. OAuth 1.0a is not handled here;
// it needs the final request and runs in the transport.
func (a *AuthConfig) apply(req *http.Request) {
	if a != nil && a.Type == AuthBearer {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
}

// signing wraps base in an OAuth 1.0a signer when a is an OAuth1 config,
// and returns base unchanged otherwise.
func (a *AuthConfig) signing(base http.RoundTripper) http.RoundTripper {
	if a == nil || a.Type != AuthOAuth1 {
		return base
	}
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{Transport: base})
	signed := oauth1.NewConfig(a.ConsumerKey, a.ConsumerSecret).
		Client(ctx, oauth1.NewToken(a.Token, a.TokenSecret))
	return signed.Transport
}
