package relink

import (
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Config configures a Client. The zero value of every field except URL
// selects the default listed on the field. RetryLimit and
// HeartbeatInterval can be set negative to disable automatic retries and
// keep-alives; the remaining durations fall back to their default when
// not positive.
type Config struct {
	URL          string       // WebSocket URL, ws:// or wss:// (required)
	Subprotocols []string     // Optional subprotocols offered during the handshake
	Header       http.Header  // Optional headers sent with the handshake request

	RetryLimit int           // Reconnection attempts per outage (default 3, negative disables)
	RetryDelay time.Duration // Fixed wait between attempts (default 3s)

	HeartbeatInterval time.Duration // Pause between keep-alive writes (default 30s, negative disables)
	HeartbeatPayload  string        // Text frame sent on each heartbeat (default "ping")

	// RefreshInterval caps how long a healthy connection lives. Once it
	// elapses the client closes the handle cleanly and dials again, which
	// helps against endpoints that cut long-lived connections on their own
	// schedule. Zero or negative leaves connections in place indefinitely.
	RefreshInterval time.Duration

	HandshakeTimeout time.Duration // Dial deadline (default 10s)
}

const (
	DefaultRetryLimit        = 3
	DefaultRetryDelay        = 3 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultHeartbeatPayload  = "ping"
	DefaultHandshakeTimeout  = 10 * time.Second
)

// withDefaults returns a copy of cfg with unset fields replaced by their
// defaults. Negative RetryLimit and HeartbeatInterval pass through
// untouched so disabling survives; RetryDelay and HandshakeTimeout treat
// anything not positive as unset.
func (cfg Config) withDefaults() Config {
	if cfg.RetryLimit == 0 {
		cfg.RetryLimit = DefaultRetryLimit
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.HeartbeatPayload == "" {
		cfg.HeartbeatPayload = DefaultHeartbeatPayload
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	return cfg
}

// validate rejects configurations no dial could ever satisfy.
func (cfg Config) validate() error {
	if cfg.URL == "" {
		return errors.Wrap(ErrInvalidURL, "url is empty")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return errors.Wrapf(ErrInvalidURL, "parse %q: %v", cfg.URL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return errors.Wrapf(ErrInvalidURL, "scheme %q is not ws or wss", u.Scheme)
	}
	if u.Host == "" {
		return errors.Wrapf(ErrInvalidURL, "%q has no host", cfg.URL)
	}
	return nil
}

// retryEnabled reports whether automatic reconnection is on.
func (cfg Config) retryEnabled() bool {
	return cfg.RetryLimit > 0
}

// heartbeatEnabled reports whether the keep-alive emitter is on.
func (cfg Config) heartbeatEnabled() bool {
	return cfg.HeartbeatInterval > 0
}

// refreshEnabled reports whether connections get rotated on a schedule.
func (cfg Config) refreshEnabled() bool {
	return cfg.RefreshInterval > 0
}
