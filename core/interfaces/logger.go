package interfaces

// Logger defines the interface for logging throughout the application.
// Core packages receive a Logger through Dependencies and never create their own.
//
// Example usage:
//
//	logger.Warn("Couldn't load a website", map[string]interface{}{
//		"domain":  "example.com",
//		"outcome": "transport",
//	})
type Logger interface {
	// Debug logs detailed troubleshooting information, such as per-hop fetch results.
	Debug(msg string, fields map[string]interface{})

	// Info logs general informational messages.
	Info(msg string, fields map[string]interface{})

	// Warn logs expected failures worth noticing, such as a domain with no icon.
	Warn(msg string, fields map[string]interface{})

	// Error logs failures that need attention.
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards every message. It is the fallback when no Logger is injected.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}
