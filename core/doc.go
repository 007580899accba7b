// Package core contains the business logic for the Icons API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Icon candidates and validated icon results
// - icons: The discovery engine (request guard, fetcher, candidate extraction, orchestration)
// - services: Caller-facing icon service with domain mapping and caching
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, DNS, logger)
//
// # Design Principles
//
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Resolver:   net.DefaultResolver,
//	    Logger:     myLogger,
//	}
//
//	engine := icons.NewService(deps, icons.DefaultOptions())
//	icon, err := engine.GetIcon(ctx, "example.com")
//	if errors.IsNotFound(err) {
//	    // no usable icon
//	}
package core
