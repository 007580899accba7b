// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for icon discovery used by the API and CLI layers

package interfaces

import (
	"context"

	"icons-api/core/domain"
)

// IconFinder discovers an icon for a bare domain name.
// A missing icon is reported as a *errors.NotFoundError.
type IconFinder interface {
	GetIcon(ctx context.Context, host string) (*domain.IconResult, error)
}

// IconSettings is the read-only view of icon settings exposed to clients
type IconSettings struct {
	CacheEnabled    bool
	CacheHours      int
	MaxRedirects    int
	MaxCandidates   int
	MaxLinks        int
	MaxResponseSize int64
}

// IconService is the caller-facing icon lookup with caching and domain mapping
type IconService interface {
	IconFinder

	// Settings reports the effective configuration
	Settings() IconSettings
}
