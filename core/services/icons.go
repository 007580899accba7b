// ABOUTME: Icon service wrapping the discovery engine with validation, domain mapping and caching
// ABOUTME: Stores both found icons and misses so repeated lookups of dead domains stay cheap

package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"icons-api/core/domain"
	coreerrors "icons-api/core/errors"
	"icons-api/core/icons"
	"icons-api/core/interfaces"
)

const iconCacheKeyPrefix = "icon:"

// IconServiceConfig configures the caller-facing icon service
type IconServiceConfig struct {
	CacheEnabled bool
	CacheHours   int

	// DomainMapping redirects lookups for a host to another domain,
	// e.g. a country site to its global brand.
	DomainMapping map[string]string

	// Limits are passed to the discovery engine
	Limits icons.Options
}

// IconService implements interfaces.IconService
type IconService struct {
	deps   interfaces.Dependencies
	finder interfaces.IconFinder
	config IconServiceConfig
}

// NewIconService creates an icon service backed by the discovery engine
func NewIconService(deps interfaces.Dependencies, config IconServiceConfig) *IconService {
	engine := icons.NewService(deps, config.Limits)
	config.Limits = engine.Options()
	return newIconService(deps, engine, config)
}

func newIconService(deps interfaces.Dependencies, finder interfaces.IconFinder, config IconServiceConfig) *IconService {
	if deps.Logger == nil {
		deps.Logger = interfaces.NopLogger{}
	}
	return &IconService{
		deps:   deps,
		finder: finder,
		config: config,
	}
}

// iconCacheEntry is the cached outcome of a lookup. Found is false for a miss.
type iconCacheEntry struct {
	Found     bool   `json:"found"`
	Source    string `json:"source,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Bytes     []byte `json:"bytes,omitempty"`
}

// GetIcon returns the icon for hostname, consulting the cache first
func (s *IconService) GetIcon(ctx context.Context, hostname string) (*domain.IconResult, error) {
	host, err := s.lookupDomain(hostname)
	if err != nil {
		return nil, err
	}
	key := iconCacheKeyPrefix + host

	if s.cacheEnabled() {
		if entry, ok := s.readCache(ctx, key); ok {
			if !entry.Found {
				return nil, &coreerrors.NotFoundError{Resource: "icon", ID: host}
			}
			if icon, ok := entry.toResult(); ok {
				return icon, nil
			}
			s.deps.Logger.Warn("Discarding corrupt icon cache entry", map[string]interface{}{
				"key": key,
			})
		}
	}

	icon, err := s.finder.GetIcon(ctx, host)
	if err != nil && !coreerrors.IsNotFound(err) {
		return nil, coreerrors.WrapError(err, "failed to get icon")
	}

	if s.cacheEnabled() {
		s.writeCache(ctx, key, icon)
	}

	if icon == nil {
		return nil, &coreerrors.NotFoundError{Resource: "icon", ID: host}
	}
	return icon, nil
}

// Settings reports the effective configuration
func (s *IconService) Settings() interfaces.IconSettings {
	return interfaces.IconSettings{
		CacheEnabled:    s.config.CacheEnabled,
		CacheHours:      s.config.CacheHours,
		MaxRedirects:    s.config.Limits.MaxRedirects,
		MaxCandidates:   s.config.Limits.MaxCandidates,
		MaxLinks:        s.config.Limits.MaxLinks,
		MaxResponseSize: s.config.Limits.MaxResponseSize,
	}
}

// lookupDomain validates hostname and returns the mapped, lowercase domain
// used both for discovery and as the cache key.
func (s *IconService) lookupDomain(hostname string) (string, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return "", &coreerrors.ValidationError{Field: "domain", Message: "must not be empty"}
	}
	if !strings.Contains(hostname, ".") {
		return "", &coreerrors.ValidationError{Field: "domain", Message: "must contain a dot"}
	}

	u, err := url.Parse("http://" + hostname)
	if err != nil || u.Hostname() == "" {
		return "", &coreerrors.ValidationError{Field: "domain", Message: "is not a valid hostname"}
	}

	host := strings.ToLower(u.Hostname())
	if mapped, ok := s.config.DomainMapping[host]; ok && mapped != "" {
		host = strings.ToLower(mapped)
	}
	return host, nil
}

func (s *IconService) cacheEnabled() bool {
	return s.config.CacheEnabled && s.deps.Cache != nil
}

func (s *IconService) cacheTTL() time.Duration {
	return time.Duration(s.config.CacheHours) * time.Hour
}

func (s *IconService) readCache(ctx context.Context, key string) (*iconCacheEntry, bool) {
	data, err := s.deps.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			s.deps.Logger.Warn("Icon cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var entry iconCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.deps.Logger.Warn("Discarding corrupt icon cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	return &entry, true
}

func (s *IconService) writeCache(ctx context.Context, key string, icon *domain.IconResult) {
	entry := iconCacheEntry{}
	if icon != nil {
		entry = iconCacheEntry{
			Found:     true,
			MediaType: icon.MediaType.String(),
			Bytes:     icon.Bytes,
		}
		if icon.SourceURI != nil {
			entry.Source = icon.SourceURI.String()
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.deps.Cache.Set(ctx, key, data, s.cacheTTL()); err != nil {
		s.deps.Logger.Warn("Icon cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (e *iconCacheEntry) toResult() (*domain.IconResult, bool) {
	mediaType := domain.MediaType(e.MediaType)
	if !mediaType.IsKnown() || len(e.Bytes) == 0 {
		return nil, false
	}

	icon := &domain.IconResult{Bytes: e.Bytes, MediaType: mediaType}
	if e.Source != "" {
		if u, err := url.Parse(e.Source); err == nil {
			icon.SourceURI = u
		}
	}
	return icon, true
}
