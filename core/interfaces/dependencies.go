// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache provides caching functionality. Only the service layer uses it;
	// the icon discovery engine itself never caches.
	Cache Cache

	// HTTPClient provides outbound HTTP requests without redirect following
	HTTPClient HTTPClient

	// Resolver provides DNS lookups for the request guard.
	// A nil Resolver means net.DefaultResolver.
	Resolver Resolver

	// Logger provides structured logging
	Logger Logger
}
