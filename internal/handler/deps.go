package handler

import (
	"georelay/internal/app/presence"
	"georelay/internal/app/relay"
	"georelay/internal/configs"
)

// AppDeps bundles what the HTTP layer needs.
type AppDeps struct {
	Config   *configs.AppConfig
	Hub      *relay.Hub
	Registry *presence.Registry
	Router   *presence.Router
}

// NewAppDeps wires a Registry and Router onto hub.
func NewAppDeps(cfg *configs.AppConfig, hub *relay.Hub) *AppDeps {
	router := presence.NewRouter(presence.NewRegistry(), hub)

	return &AppDeps{
		Config:   cfg,
		Hub:      hub,
		Registry: router.Registry(),
		Router:   router,
	}
}
