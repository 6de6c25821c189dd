package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kbukum/twitterkit/logger"
	"github.com/kbukum/twitterkit/resilience"
	"github.com/kbukum/twitterkit/twitter"
	"github.com/kbukum/twitterkit/util"
	"github.com/kbukum/twitterkit/version"
)

type callFunc func(ctx context.Context, path string, params twitter.Params) (*twitter.Response, error)

// call runs a request command: args are PATH then key=value pairs.
func (a *app) call(ctx context.Context, fn callFunc, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing PATH", errUsage)
	}
	params, files, err := parseParams(args[1:])
	if err != nil {
		return err
	}
	defer closeFiles(files)

	attempts := a.retries
	if len(files) > 0 {
		attempts = 1
	}
	resp, err := a.withRetry(ctx, attempts, func(ctx context.Context) (*twitter.Response, error) {
		return fn(ctx, args[0], params)
	})
	if resp != nil && resp.Data != nil {
		if werr := writeJSON(a.stdout, resp.Data); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// withRetry runs fn up to attempts times. Calls carrying files get one
// attempt: the first one drains their readers.
func (a *app) withRetry(ctx context.Context, attempts int, fn func(ctx context.Context) (*twitter.Response, error)) (*twitter.Response, error) {
	cfg := twitter.RetryConfig()
	cfg.MaxAttempts = attempts
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		a.log.Warn("retrying call", logger.Fields("attempt", attempt, logger.FieldError, err.Error(), "backoff", backoff.String()))
	}
	return resilience.Retry(ctx, cfg, fn)
}

// tweet uploads the optional image and posts the status, like a
// scheduled poster would.
func (a *app) tweet(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.TrimSpace(strings.Join(args, " ")) == "" {
		return fmt.Errorf("%w: missing TEXT", errUsage)
	}
	status := strings.Join(args, " ")

	if a.dryRun {
		plan := map[string]any{"status": status}
		if a.media != "" {
			plan["media"] = a.media
		}
		return writeJSON(a.stdout, map[string]any{"dry_run": plan})
	}

	params := twitter.Params{"status": status}
	if a.media != "" {
		mediaID, err := a.uploadMedia(ctx, a.media)
		if err != nil {
			return err
		}
		params["media_ids"] = mediaID
	}

	resp, err := a.client.Post(ctx, updateStatusPath, params)
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, resp.Data)
}

func (a *app) uploadMedia(ctx context.Context, path string) (string, error) {
	f, err := twitter.OpenFile(path, "")
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	resp, err := a.client.Upload(ctx, defaultUploadPath, twitter.Params{"media": f})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	m, _ := resp.Map()
	if id, ok := m["media_id_string"].(string); ok && id != "" {
		return id, nil
	}
	if id, ok := m["media_id"].(int64); ok {
		return fmt.Sprint(id), nil
	}
	return "", fmt.Errorf("upload %s: response has no media id", path)
}

// rateLimit makes one call and prints the rate-limit state it reported.
func (a *app) rateLimit(ctx context.Context, args []string) error {
	path := defaultRateLimitPath
	if len(args) > 0 {
		path = args[0]
	}
	_, err := a.client.Get(ctx, path, nil)
	info := a.client.RateLimit()
	if !info.Known() {
		if err != nil {
			return err
		}
		return fmt.Errorf("%s: no rate-limit headers in response", path)
	}

	out := map[string]any{
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetAt.IsZero() {
		out["reset_at"] = info.ResetAt.UTC().Format(time.RFC3339)
		out["reset_in"] = info.ResetIn(time.Now()).Round(time.Second).String()
	}
	if werr := writeJSON(a.stdout, out); werr != nil {
		return werr
	}
	return err
}

// printOptions prints the configuration snapshot with secrets masked.
func (a *app) printOptions() error {
	opts := a.client.Options()
	conn := opts[twitter.OptionConnectionOptions].(twitter.ConnectionOptions)
	stack := opts[twitter.OptionMiddleware].(twitter.Stack)

	out := map[string]any{
		twitter.OptionConsumerKey:      util.MaskSecret(opts[twitter.OptionConsumerKey].(string), 4),
		twitter.OptionConsumerSecret:   util.MaskSecret(opts[twitter.OptionConsumerSecret].(string), 0),
		twitter.OptionOAuthToken:       util.MaskSecret(opts[twitter.OptionOAuthToken].(string), 4),
		twitter.OptionOAuthTokenSecret: util.MaskSecret(opts[twitter.OptionOAuthTokenSecret].(string), 0),
		twitter.OptionBearerToken:      util.MaskSecret(opts[twitter.OptionBearerToken].(string), 0),
		twitter.OptionEndpoint:         opts[twitter.OptionEndpoint],
		twitter.OptionMediaEndpoint:    opts[twitter.OptionMediaEndpoint],
		twitter.OptionMiddleware:       stack.Names(),
		twitter.OptionConnectionOptions: map[string]any{
			"headers":      conn.Headers,
			"open_timeout": conn.OpenTimeout.String(),
			"timeout":      conn.Timeout.String(),
			"ssl":          map[string]any{"verify": conn.SSL.Verify},
			"raw":          conn.Raw,
		},
	}
	return writeJSON(a.stdout, out)
}

func printVersion(w io.Writer) error {
	return writeJSON(w, version.Get())
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// parseParams turns key=value arguments into request params. A repeated
// key becomes a list and a value of @path opens path as a file.
func parseParams(args []string) (twitter.Params, []*twitter.File, error) {
	params := make(twitter.Params, len(args))
	var files []*twitter.File
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			closeFiles(files)
			return nil, nil, fmt.Errorf("%w: parameter %q is not key=value", errUsage, arg)
		}

		var v any = value
		if path, isFile := strings.CutPrefix(value, "@"); isFile {
			f, err := twitter.OpenFile(path, "")
			if err != nil {
				closeFiles(files)
				return nil, nil, err
			}
			files = append(files, f)
			v = f
		}

		switch existing := params[key].(type) {
		case nil:
			params[key] = v
		case []any:
			params[key] = append(existing, v)
		default:
			params[key] = []any{existing, v}
		}
	}
	return params, files, nil
}

func closeFiles(files []*twitter.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
