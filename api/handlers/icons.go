// ABOUTME: Icon handlers for the Huma API
// ABOUTME: Serves discovered icon bytes per domain and exposes the effective icon settings

package handlers

import (
	"context"
	"net/http"

	"icons-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
)

// iconCacheControl lets browsers and CDNs keep an icon for a week
const iconCacheControl = "public, max-age=604800"

// IconHandler handles icon-related HTTP requests
type IconHandler struct {
	iconService interfaces.IconService
}

// NewIconHandler creates a new icon handler
func NewIconHandler(iconService interfaces.IconService) *IconHandler {
	return &IconHandler{iconService: iconService}
}

// RegisterRoutes registers all icon-related routes
func (h *IconHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getIcon",
		Method:      http.MethodGet,
		Path:        "/{domain}/icon.png",
		Summary:     "Get the icon of a website",
		Description: "Discovers the icon a website advertises, falling back to /favicon.ico, and returns the raw image bytes",
		Tags:        []string{"Icons"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Icon image",
				Content: map[string]*huma.MediaType{
					"image/png":    {},
					"image/x-icon": {},
					"image/jpeg":   {},
				},
			},
		},
	}, h.GetIcon)

	huma.Register(api, huma.Operation{
		OperationID: "getConfig",
		Method:      http.MethodGet,
		Path:        "/config",
		Summary:     "Get icon settings",
		Description: "Returns the effective cache and discovery limits",
		Tags:        []string{"Icons"},
	}, h.GetConfig)
}

// GetIconInput defines the input for icon lookup
type GetIconInput struct {
	Domain string `path:"domain" maxLength:"253" doc:"Website hostname, e.g. example.com"`
}

// GetIconOutput is the raw icon with its detected media type
type GetIconOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// GetIcon handles GET /{domain}/icon.png
func (h *IconHandler) GetIcon(ctx context.Context, input *GetIconInput) (*GetIconOutput, error) {
	icon, err := h.iconService.GetIcon(ctx, input.Domain)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &GetIconOutput{
		ContentType:  icon.MediaType.String(),
		CacheControl: iconCacheControl,
		Body:         icon.Bytes,
	}, nil
}

// ConfigOutput wraps the settings response
type ConfigOutput struct {
	Body ConfigResponse
}

// ConfigResponse describes the effective icon settings
type ConfigResponse struct {
	CacheEnabled     bool  `json:"cacheEnabled" doc:"Whether icon lookups are cached"`
	CacheHours       int   `json:"cacheHours" doc:"How long found icons and misses are cached"`
	MaxRedirects     int   `json:"maxRedirects" doc:"Redirect hops followed per fetch"`
	MaxCandidates    int   `json:"maxCandidates" doc:"Icon candidates fetched per page"`
	MaxLinks         int   `json:"maxLinks" doc:"Link elements inspected per page"`
	MaxResponseBytes int64 `json:"maxResponseBytes" doc:"Largest accepted icon or page body"`
}

// GetConfig handles GET /config
func (h *IconHandler) GetConfig(ctx context.Context, input *struct{}) (*ConfigOutput, error) {
	settings := h.iconService.Settings()
	return &ConfigOutput{
		Body: ConfigResponse{
			CacheEnabled:     settings.CacheEnabled,
			CacheHours:       settings.CacheHours,
			MaxRedirects:     settings.MaxRedirects,
			MaxCandidates:    settings.MaxCandidates,
			MaxLinks:         settings.MaxLinks,
			MaxResponseBytes: settings.MaxResponseSize,
		},
	}, nil
}
