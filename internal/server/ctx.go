package server

import (
	"github.com/rs/zerolog/log"

	"github.com/infratel/telemap/internal/config"
	"github.com/infratel/telemap/internal/region"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config  *config.Config
	Regions region.Resolver
}

// NewServerContext indexes the configured regions for handler lookups.
func NewServerContext(cfg *config.Config) *ServerContext {
	resolver := cfg.Resolver()

	for _, r := range cfg.Regions {
		log.Debug().
			Str("region", r.Name).
			Strs("aliases", r.Aliases).
			Float64("warn_distance_km", r.WarnDistanceKm).
			Int("references", len(r.References)).
			Msg("Region registered")
	}

	log.Info().
		Int("regions", len(cfg.Regions)).
		Str("default_region", cfg.DefaultRegion).
		Msg("Server context initialized")

	return &ServerContext{Config: cfg, Regions: resolver}
}

// defaultRegion resolves the region for requests that do not name one.
func (s *ServerContext) defaultRegion() (*region.Region, bool) {
	return s.Regions.Lookup(s.Config.DefaultRegion)
}
