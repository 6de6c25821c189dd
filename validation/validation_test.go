package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type inner struct {
	Timeout time.Duration `json:"timeout" validate:"gte=0"`
}

type settings struct {
	Endpoint string `json:"endpoint" validate:"required,http_url"`
	Mode     string `validate:"omitempty,oneof=fast slow"`
	Inner    inner  `json:"inner"`
}

func TestValidate_OK(t *testing.T) {
	s := settings{Endpoint: "https://api.example.com", Mode: "fast"}
	if err := Validate(s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_Fields(t *testing.T) {
	s := settings{Endpoint: "", Mode: "medium", Inner: inner{Timeout: -time.Second}}
	err := Validate(s)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	tests := []struct {
		field string
	}{
		{"endpoint"},
		{"mode"},
		{"inner.timeout"},
	}
	for _, tt := range tests {
		if !verr.Has(tt.field) {
			t.Errorf("expected failure on %q, got %+v", tt.field, verr.Fields)
		}
	}
	if !strings.Contains(err.Error(), "endpoint: is required") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidate_BadURL(t *testing.T) {
	err := Validate(settings{Endpoint: "not a url"})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has("endpoint") {
		t.Fatalf("expected endpoint failure, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Endpoint":      "endpoint",
		"ConsumerKey":   "consumer_key",
		"OAuthToken":    "o_auth_token",
		"already_snake": "already_snake",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
