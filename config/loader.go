package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/twitterkit/logger"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	ReadEnv(path string) (map[string]string, error)
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) ReadEnv(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

// Resolver finds the config and env files for an application.
type Resolver struct {
	FileSystem FileSystem
	// Home is searched for "<home>/.<app>/config.yml". Empty skips it.
	Home string
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns the explicit paths in opts, searching standard
// locations for whichever is empty.
func (r *Resolver) ResolveFiles(appName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(r.configCandidates(appName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first([]string{
			".env." + appName,
			".env",
			filepath.Join("cmd", appName, ".env"),
		})
	}
	return resolved
}

func (r *Resolver) configCandidates(appName string) []string {
	paths := []string{
		"config.yml",
		"config.yaml",
		filepath.Join("cmd", appName, "config.yml"),
		filepath.Join("config", appName+".yml"),
	}
	if r.Home != "" {
		paths = append(paths, filepath.Join(r.Home, "."+appName, "config.yml"))
	}
	return paths
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix restricts environment binding to variables starting with
	// "<PREFIX>_" and strips it, so TWITTERCTL_LOGGING_LEVEL binds
	// logging.level.
	EnvPrefix string
	// Environ supplies the process environment. Defaults to os.Environ.
	Environ func() []string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix binds only variables carrying the given prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) }
}

// WithEnviron replaces the process environment, mainly for tests.
func WithEnviron(environ func() []string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Environ = environ }
}

// LoadConfig loads configuration for appName into cfg. Precedence, lowest
// first: the YAML file, the .env file, the process environment. A missing
// or unreadable file is logged and skipped; only unmarshal failures are
// returned.
func LoadConfig(appName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}, Environ: os.Environ}
	for _, opt := range opts {
		opt(&lc)
	}

	home, _ := os.UserHomeDir()
	resolver := &Resolver{FileSystem: lc.FileSystem, Home: home}
	files := resolver.ResolveFiles(appName, lc)

	v := viper.New()
	log := logger.WithComponent("config")

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("failed to load config file", logger.Fields("file", files.ConfigFile, logger.FieldError, err.Error()))
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		values, err := lc.FileSystem.ReadEnv(files.EnvFile)
		if err != nil {
			log.Warn("failed to load env file", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
		for key, value := range values {
			bindEnv(v, lc.EnvPrefix, key, value)
		}
	}

	for _, kv := range lc.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		bindEnv(v, lc.EnvPrefix, key, value)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshal config for %s: %w", appName, err)
	}
	return nil
}

func bindEnv(v *viper.Viper, prefix, key, value string) {
	if prefix != "" {
		rest, ok := strings.CutPrefix(key, prefix+"_")
		if !ok {
			return
		}
		key = rest
	}
	for _, variant := range generateEnvKeyVariants(key) {
		v.Set(variant, value)
	}
}

// generateEnvKeyVariants maps an UPPER_SNAKE variable onto the nested key
// spellings viper might expect:
//
//	LOGGING_LEVEL  -> [logging_level, logging.level]
//	API_OPEN_TIMEOUT -> [api_open_timeout, api.open.timeout, api.open_timeout]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{lowerKey, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
