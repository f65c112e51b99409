package serppro

import (
	"net/http"
	"time"
)

// Profile names a preconfigured set of connection defaults. The profiles are
// deliberately kept separate: pick one and override individual settings as
// needed.
type Profile string

const (
	// ProfileSerpPro is the general-purpose profile: TLS verification on,
	// a 300 second per-attempt timeout, and unbounded retry on timeout.
	ProfileSerpPro Profile = "serppro"
	// ProfileWordstat is the Wordstat-only profile: TLS verification off,
	// no explicit timeout, and a single attempt per call.
	ProfileWordstat Profile = "wordstat"
)

// Valid reports whether the profile is known.
func (p Profile) Valid() bool {
	return p == ProfileSerpPro || p == ProfileWordstat
}

// DefaultTimeout is the per-attempt timeout of the general-purpose profile.
const DefaultTimeout = 300 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout     time.Duration
	maxAttempts int // 0 means retry timeouts without bound
	verifyTLS   bool
	httpClient  *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:     DefaultTimeout,
		maxAttempts: 0,
		verifyTLS:   true,
	}
}

// WithProfile resets timeout, retry and TLS settings to the named profile's
// defaults. Apply it before any option it should not override.
func WithProfile(p Profile) Option {
	return func(o *clientOptions) {
		switch p {
		case ProfileWordstat:
			o.timeout = 0
			o.maxAttempts = 1
			o.verifyTLS = false
		default:
			o.timeout = DefaultTimeout
			o.maxAttempts = 0
			o.verifyTLS = true
		}
	}
}

// WithTimeout sets the per-attempt timeout. Zero disables the explicit
// timeout and leaves deadlines to the transport.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithMaxAttempts bounds how many times a timed-out call is attempted.
// 1 disables retries entirely; 0 retries without bound, which is the
// ProfileSerpPro default.
func WithMaxAttempts(attempts int) Option {
	return func(o *clientOptions) {
		if attempts >= 0 {
			o.maxAttempts = attempts
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Use with caution and only against hosts you control.
func WithInsecureSkipVerify() Option {
	return func(o *clientOptions) {
		o.verifyTLS = false
	}
}

// WithHTTPClient replaces the underlying HTTP client. Timeout and TLS
// settings of the replacement are used as-is.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
