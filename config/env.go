package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kbukum/twitterkit/util"
)

// Env resolves keys from the process environment, falling back to
// values read from .env files. Later files do not override earlier ones.
type Env struct {
	file   map[string]string
	lookup func(string) (string, bool)
}

// NewEnv reads the given .env files. Empty paths are skipped; a named
// file that cannot be read is an error.
func NewEnv(paths ...string) (*Env, error) {
	return NewEnvFrom(os.LookupEnv, paths...)
}

// NewEnvFrom is NewEnv with lookup standing in for the process
// environment.
func NewEnvFrom(lookup func(string) (string, bool), paths ...string) (*Env, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	e := &Env{file: make(map[string]string), lookup: lookup}
	for _, path := range paths {
		if path == "" {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading env file %s: %w", path, err)
		}
		for k, v := range values {
			if _, exists := e.file[k]; !exists {
				e.file[k] = v
			}
		}
	}
	return e, nil
}

// Lookup returns the value for key. The process environment wins over
// .env values.
func (e *Env) Lookup(key string) (string, bool) {
	if e == nil {
		return os.LookupEnv(key)
	}
	if v, ok := e.lookup(key); ok {
		return util.SanitizeEnvValue(v), true
	}
	v, ok := e.file[key]
	return v, ok
}

// Get returns the value for key or "".
func (e *Env) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// Keys returns the keys read from .env files.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.file))
	for k := range e.file {
		keys = append(keys, k)
	}
	return keys
}
