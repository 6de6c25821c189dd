// Command twitterctl talks to the Twitter REST API from the shell.
//
//	twitterctl [flags] options
//	twitterctl [flags] get PATH [key=value ...]
//	twitterctl [flags] post PATH [key=value ...]
//	twitterctl [flags] upload [PATH] key=@file [key=value ...]
//	twitterctl [flags] tweet [--media FILE] [--dry-run] TEXT
//	twitterctl [flags] ratelimit [PATH]
//	twitterctl version
//
// A value of the form @path is sent as a file upload.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/twitterkit/config"
	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/observability"
	"github.com/kbukum/twitterkit/twitter"
	"github.com/kbukum/twitterkit/util"
)

const (
	appName   = "twitterctl"
	envPrefix = "TWITTERCTL"

	exitOK    = 0
	exitError = 1
	exitUsage = 2

	defaultUploadPath    = "1.1/media/upload.json"
	defaultRateLimitPath = "/1.1/application/rate_limit_status.json"
	updateStatusPath     = "/1.1/statuses/update.json"

	telemetryFlushTimeout = 2 * time.Second
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Environ())
	stop()
	os.Exit(code)
}

type flags struct {
	configFile string
	envFile    string
	logLevel   string
	endpoint   string
	media      string
	retries    int
	dryRun     bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, error) {
	f := &flags{}
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configFile, "config", "", "path to config.yml")
	fs.StringVar(&f.envFile, "env-file", "", "path to a .env file with TWITTER_* credentials")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.endpoint, "endpoint", "", "API endpoint; also used for media uploads")
	fs.StringVar(&f.media, "media", "", "image to attach (tweet)")
	fs.IntVar(&f.retries, "retries", 0, "attempts per call, including the first")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print what would be sent (tweet)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] options|get|post|upload|tweet|ratelimit|version [args]\n", appName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, environ []string) int {
	f, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if len(rest) == 0 {
		fmt.Fprintf(stderr, "%s: missing command\n", appName)
		return exitUsage
	}
	command, cmdArgs := rest[0], rest[1:]

	if command == "version" {
		return report(stderr, printVersion(stdout))
	}

	app, err := newApp(ctx, f, stdout, stderr, environ)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitError
	}
	defer app.close()

	switch command {
	case "options":
		err = app.printOptions()
	case "get":
		err = app.call(ctx, app.client.Get, cmdArgs)
	case "post":
		err = app.call(ctx, app.client.Post, cmdArgs)
	case "upload":
		if len(cmdArgs) == 0 || strings.Contains(cmdArgs[0], "=") {
			cmdArgs = append([]string{defaultUploadPath}, cmdArgs...)
		}
		err = app.call(ctx, app.client.Upload, cmdArgs)
	case "tweet":
		err = app.tweet(ctx, cmdArgs)
	case "ratelimit":
		err = app.rateLimit(ctx, cmdArgs)
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, command)
		return exitUsage
	}
	return report(stderr, err)
}

func report(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitError
	}
}

// app holds what every command needs.
type app struct {
	cfg     *Config
	client  *twitter.Client
	log     *logger.Logger
	retries int
	dryRun  bool
	media   string
	stdout  io.Writer

	telemetry *observability.Telemetry
}

func newApp(ctx context.Context, f *flags, stdout, stderr io.Writer, environ []string) (*app, error) {
	cfg := &Config{}
	opts := []config.LoaderOption{
		config.WithEnvPrefix(envPrefix),
		config.WithEnviron(func() []string { return environ }),
	}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	if err := config.LoadConfig(appName, cfg, opts...); err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr)

	env, err := config.NewEnvFrom(environLookup(environ), util.Coalesce(f.envFile, cfg.EnvFile))
	if err != nil {
		return nil, err
	}

	client := twitter.NewClient(
		twitter.WithEnv(env.Lookup),
		twitter.WithLogger(log),
		twitter.WithRateLimit(twitter.NewRateLimit()),
	)
	client.Configure(func(c *twitter.Configuration) {
		cfg.API.apply(c)
		if f.endpoint != "" {
			c.Endpoint = f.endpoint
			c.MediaEndpoint = f.endpoint
		}
	})

	a := &app{
		cfg:     cfg,
		client:  client,
		log:     log.WithComponent("cli"),
		retries: util.Coalesce(f.retries, cfg.Retry.MaxAttempts),
		dryRun:  f.dryRun,
		media:   f.media,
		stdout:  stdout,
	}
	if cfg.Telemetry.Enabled {
		if err := a.instrument(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return a, nil
}

// instrument exports traces and metrics of every API call to the
// configured OTLP collector.
func (a *app) instrument(ctx context.Context) error {
	tel, err := observability.Init(ctx, a.cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	metrics, err := observability.NewMetrics(observability.Meter(appName))
	if err != nil {
		_ = tel.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	a.client.Configure(func(c *twitter.Configuration) {
		c.Middleware = c.Middleware.Prepend(twitter.Tracing(a.cfg.Name), twitter.Metrics(metrics))
	})
	a.telemetry = tel
	a.log.Debug("telemetry enabled", logger.Fields(
		"endpoint", a.cfg.Telemetry.Endpoint,
		"sample_rate", a.cfg.Telemetry.SampleRate,
	))
	return nil
}

func (a *app) close() {
	_ = a.client.Close()
	if a.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := a.telemetry.Shutdown(ctx); err != nil {
			a.log.Warn("flushing telemetry", logger.Fields(logger.FieldError, err.Error()))
		}
	}
}

// environLookup resolves keys from a KEY=VALUE list, later entries winning.
func environLookup(environ []string) twitter.EnvLookup {
	values := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			values[k] = v
		}
	}
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}
