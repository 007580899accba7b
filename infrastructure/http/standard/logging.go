// ABOUTME: Logging round tripper for outbound HTTP requests
// ABOUTME: Records every hop, including redirects the caller chooses to follow

package standard

import (
	"net/http"
	"time"

	"icons-api/core/interfaces"
)

// LoggingRoundTripper implements http.RoundTripper with logging
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Logger    interfaces.Logger
}

// RoundTrip logs outgoing HTTP requests
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.Logger.Debug("Outgoing HTTP request failed", map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL.String(),
			"duration_ms": duration.Milliseconds(),
			"error":       err.Error(),
		})
		return nil, err
	}

	fields := map[string]interface{}{
		"method":      req.Method,
		"url":         req.URL.String(),
		"status":      resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
	}
	if location := resp.Header.Get("Location"); location != "" {
		fields["location"] = location
	}
	t.Logger.Debug("Outgoing HTTP response", fields)

	return resp, nil
}
