// Package version carries the twitterkit release version and the build
// metadata stamped into binaries.
//
// Values are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/twitterkit/version.Version=1.2.0"
//
// The version string also feeds the default User-Agent header sent by the
// twitter client.
package version
