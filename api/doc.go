// Package api provides the HTTP API layer for the Icons application.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
//	GET /{domain}/icon.png   raw icon bytes with the detected Content-Type
//	GET /config              effective cache settings and discovery limits
//	GET /openapi.json        OpenAPI 3.1 document
//	GET /docs                interactive documentation
//
// # Middleware
//
// The API includes middleware for:
// - CORS handling
// - Request logging with unique request IDs
// - Rate limiting per IP address
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	})
//
//	handlers.NewIconHandler(iconService).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format:
//
//	{
//	    "status": 404,
//	    "title": "Not Found",
//	    "detail": "icon not found: example.com"
//	}
//
// Domain errors are mapped to HTTP status codes in handlers/errors.go.
package api
