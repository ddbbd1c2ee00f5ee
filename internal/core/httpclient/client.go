package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"wismo-tracker/internal/core/config"
	"wismo-tracker/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
// Query strings are dropped from logged URLs; headers are never logged.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.FromContext(req.Context())
	target := redactURL(req.URL)

	log.Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Warn("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// redactURL strips credentials and the query string.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clean := *u
	clean.User = nil
	clean.RawQuery = ""
	return clean.String()
}

// ProxyURL returns the egress proxy URL for p, or nil when disabled.
func ProxyURL(p config.ProxyConfig) *url.URL {
	if !p.Enabled || p.Hostname == "" || p.Port <= 0 {
		return nil
	}
	u := &url.URL{Scheme: "http", Host: fmt.Sprintf("%s:%d", p.Hostname, p.Port)}
	if p.Username != "" && p.Password != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}

// NewProxiedClient is NewClient routed through the configured egress proxy, if any.
func NewProxiedClient(timeout time.Duration, p config.ProxyConfig) *http.Client {
	proxyURL := ProxyURL(p)
	if proxyURL == nil {
		return NewClient(timeout)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)

	return &http.Client{
		Transport: &LoggingRoundTripper{Proxied: transport},
		Timeout:   timeout,
	}
}
