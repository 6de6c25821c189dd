package twitter

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/twitterkit/httpclient"
)

// ErrorCode classifies pipeline failures.
type ErrorCode int

const (
	// ErrCodeParse indicates a response body that claimed to be JSON but was not.
	ErrCodeParse ErrorCode = iota
	// ErrCodeClient indicates a 4xx response.
	ErrCodeClient
	// ErrCodeServer indicates a 5xx response.
	ErrCodeServer
	// ErrCodeTransport indicates the exchange itself failed: the request
	// could not be encoded or sent, or no response arrived.
	ErrCodeTransport
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeParse:
		return "parse"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	case ErrCodeTransport:
		return "transport"
	default:
		return "unknown"
	}
}

var statusTitles = map[int]string{
	http.StatusBadRequest:          "BadRequest",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "NotFound",
	http.StatusNotAcceptable:       "NotAcceptable",
	StatusEnhanceYourCalm:          "EnhanceYourCalm",
	http.StatusUnprocessableEntity: "UnprocessableEntity",
	http.StatusTooManyRequests:     "TooManyRequests",
	http.StatusInternalServerError: "InternalServerError",
	http.StatusBadGateway:          "BadGateway",
	http.StatusServiceUnavailable:  "ServiceUnavailable",
	http.StatusGatewayTimeout:      "GatewayTimeout",
}

// StatusEnhanceYourCalm is the status the v1 search and trends endpoints
// used for rate limiting before 429 existed.
const StatusEnhanceYourCalm = 420

// Error is the failure returned by the pipeline.
type Error struct {
	Code ErrorCode
	// StatusCode is the HTTP status (0 for transport failures).
	StatusCode int
	Message    string
	// APICode is the Twitter error code from the first entry of "errors", if any.
	APICode int
	// Payload is the parsed response body, when there was one.
	Payload any
	Header  http.Header
	// RateLimit is the limit state carried by the failing response.
	RateLimit RateLimitInfo
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeTransport:
		return fmt.Sprintf("twitter: transport error: %s", e.Message)
	case ErrCodeParse:
		return fmt.Sprintf("twitter: parse error (HTTP %d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("twitter: %s (HTTP %d): %s", e.Title(), e.StatusCode, e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Title returns Twitter's name for the status, e.g. "NotFound".
func (e *Error) Title() string {
	if t, ok := statusTitles[e.StatusCode]; ok {
		return t
	}
	switch e.Code {
	case ErrCodeClient:
		return "ClientError"
	case ErrCodeServer:
		return "ServerError"
	case ErrCodeParse:
		return "ParseError"
	default:
		return "TransportError"
	}
}

func newStatusError(code ErrorCode, resp *Response) *Error {
	msg, apiCode := extractMessage(resp.Data)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	info, _ := ParseRateLimit(resp.Header, time.Now())
	return &Error{
		Code:       code,
		StatusCode: resp.StatusCode,
		Message:    msg,
		APICode:    apiCode,
		Payload:    resp.Data,
		Header:     resp.Header,
		RateLimit:  info,
	}
}

func newParseError(resp *Response, err error) *Error {
	return &Error{
		Code:       ErrCodeParse,
		StatusCode: resp.StatusCode,
		Message:    err.Error(),
		Header:     resp.Header,
		Err:        err,
	}
}

func newTransportError(err error) *Error {
	return &Error{Code: ErrCodeTransport, Message: err.Error(), Err: err}
}

// extractMessage reads the error text from a parsed error body. It tries
// "error" first, then the first entry of "errors", which may be a string
// or an object with "message" and "code".
func extractMessage(payload any) (string, int) {
	body, ok := payload.(map[string]any)
	if !ok {
		return "", 0
	}
	if msg, ok := body["error"].(string); ok && msg != "" {
		return strings.TrimSpace(msg), 0
	}

	var first any
	switch errs := body["errors"].(type) {
	case []any:
		if len(errs) > 0 {
			first = errs[0]
		}
	default:
		first = errs
	}

	switch v := first.(type) {
	case string:
		return strings.TrimSpace(v), 0
	case map[string]any:
		msg, _ := v["message"].(string)
		code, _ := v["code"].(int64)
		return strings.TrimSpace(msg), int(code)
	}
	return "", 0
}

// AsError returns the *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

func hasStatus(err error, status int) bool {
	e, ok := AsError(err)
	return ok && e.StatusCode == status
}

// IsParseError reports whether err is a malformed JSON body.
func IsParseError(err error) bool { return hasCode(err, ErrCodeParse) }

// IsClientError reports whether err is a 4xx response.
func IsClientError(err error) bool { return hasCode(err, ErrCodeClient) }

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsTransportError reports whether the exchange itself failed.
func IsTransportError(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsBadRequest reports a 400 response.
func IsBadRequest(err error) bool { return hasStatus(err, http.StatusBadRequest) }

// IsUnauthorized reports a 401 response.
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsForbidden reports a 403 response.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsTooManyRequests reports a 429 response.
func IsTooManyRequests(err error) bool { return hasStatus(err, http.StatusTooManyRequests) }

// IsEnhanceYourCalm reports the legacy 420 rate-limit response.
func IsEnhanceYourCalm(err error) bool { return hasStatus(err, StatusEnhanceYourCalm) }

// IsServiceUnavailable reports a 503 response.
func IsServiceUnavailable(err error) bool { return hasStatus(err, http.StatusServiceUnavailable) }

// IsRateLimited reports a 429 or 420 response.
func IsRateLimited(err error) bool {
	return IsTooManyRequests(err) || IsEnhanceYourCalm(err)
}

// IsRetryable reports whether repeating the call may succeed: server
// errors, rate limiting and retryable transport failures.
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	if !ok {
		return false
	}
	switch e.Code {
	case ErrCodeServer:
		return true
	case ErrCodeClient:
		return IsRateLimited(err)
	case ErrCodeTransport:
		return httpclient.IsRetryable(e.Err)
	default:
		return false
	}
}

// RetryAfter returns how long to wait before retrying a rate-limited
// call, derived from the reset time the response carried.
func RetryAfter(err error) (time.Duration, bool) {
	e, ok := AsError(err)
	if !ok || !IsRateLimited(err) || e.RateLimit.ResetAt.IsZero() {
		return 0, false
	}
	return max(time.Until(e.RateLimit.ResetAt), 0), true
}
