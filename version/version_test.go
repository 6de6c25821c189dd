package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGet_UsesLinkerValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234"
	BuildTime = "2024-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.0.0" {
		t.Errorf("expected '1.0.0', got %q", info.Version)
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildTime != "2024-01-15T10:30:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.1.0"
	GitCommit = "def5678"

	got := Short()
	if !strings.HasPrefix(got, "2.1.0-def5678") {
		t.Errorf("expected prefix '2.1.0-def5678', got %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	defer saveAndRestore()()
	Version = "3.0.0"

	tests := []struct {
		product string
		want    string
	}{
		{"Twitter Go Client", "Twitter Go Client 3.0.0"},
		{"", "3.0.0"},
	}
	for _, tc := range tests {
		if got := UserAgent(tc.product); got != tc.want {
			t.Errorf("UserAgent(%q) = %q, want %q", tc.product, got, tc.want)
		}
	}
}
