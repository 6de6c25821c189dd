// Package security turns declarative TLS settings into a *tls.Config for
// the twitterkit transport.
//
//	cfg := security.TLSConfig{SkipVerify: true}
//	tlsConfig, err := cfg.Build()
package security
