// ABOUTME: Key and value validation for the SQLite cache
// ABOUTME: Rejects unusable input and flags suspicious key patterns in logs

package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"icons-api/core/interfaces"
)

const (
	maxKeyLength = 512

	// An icon capped at 5 MB grows by a third once base64-encoded in its JSON entry
	maxValueLength = 8 * 1024 * 1024
)

// suspiciousPatterns never break the parameterized statements, but keys are
// built from client-supplied hostnames and these are worth a log line.
var suspiciousPatterns = []string{"--", "/*", "*/", ";", "'", "\"", "\\", "\n", "\r", "\t"}

// validateKey rejects empty, oversized and NUL-containing keys
func validateKey(key string, logger interfaces.Logger) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: max %d characters", maxKeyLength)
	}
	if strings.Contains(key, "\x00") {
		return errors.New("key cannot contain null bytes")
	}

	for _, pattern := range suspiciousPatterns {
		if strings.Contains(key, pattern) {
			logger.Warn("Suspicious pattern detected in cache key", map[string]interface{}{
				"pattern":     pattern,
				"key_length":  len(key),
				"key_preview": truncateKey(key),
			})
		}
	}
	return nil
}

// truncateKey returns a safe preview of the key for logging
func truncateKey(key string) string {
	const maxPreview = 50
	if len(key) <= maxPreview {
		return key
	}
	return key[:maxPreview] + "..."
}

func validateValue(value []byte) error {
	if len(value) == 0 {
		return errors.New("value cannot be empty")
	}
	if len(value) > maxValueLength {
		return fmt.Errorf("value too large: max %d bytes", maxValueLength)
	}
	return nil
}
