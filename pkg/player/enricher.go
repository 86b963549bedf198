package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/profile-peek/profile-peek/pkg/faceit"
	"github.com/profile-peek/profile-peek/pkg/stats"
	"github.com/rs/zerolog"
)

// ErrNoEnrichment is returned by an Enricher that has nothing for a player.
// It is an expected outcome, not a failure.
var ErrNoEnrichment = errors.New("no enrichment data")

// Enrichment applies one provider's data to a player.
type Enrichment func(p *Player)

// Enricher fetches third-party data for a resolved Steam ID. Enrichers run
// concurrently; their enrichments are applied in registration order.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, steamID string) (Enrichment, error)
}

// FaceitSource is the part of faceit.Client the enricher needs.
type FaceitSource interface {
	FetchProfile(ctx context.Context, steamID string) (*faceit.Profile, error)
	FetchMatchHistory(ctx context.Context, playerID string) (*faceit.MatchHistory, error)
}

// FaceitSiteIndex is where the FACEIT link goes in the site list.
const FaceitSiteIndex = 1

// FaceitEnricher sets faceit_data and adds the FACEIT site.
type FaceitEnricher struct {
	source FaceitSource
	logger zerolog.Logger
}

// NewFaceitEnricher creates the FACEIT enricher.
func NewFaceitEnricher(source FaceitSource, logger zerolog.Logger) *FaceitEnricher {
	return &FaceitEnricher{source: source, logger: logger}
}

// Name implements Enricher.
func (e *FaceitEnricher) Name() string {
	return "faceit"
}

// Enrich fetches the profile and then the match history. A missing history
// only zeroes the stats; a missing profile yields no enrichment at all.
func (e *FaceitEnricher) Enrich(ctx context.Context, steamID string) (Enrichment, error) {
	profile, err := e.source.FetchProfile(ctx, steamID)
	if err != nil {
		if errors.Is(err, faceit.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNoEnrichment, err)
		}
		return nil, err
	}

	var summary stats.Summary
	history, err := e.source.FetchMatchHistory(ctx, profile.PlayerID)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("steam_id", steamID).
			Str("player_id", profile.PlayerID).
			Msg("FACEIT match history unavailable, stats zeroed")
	} else {
		summary = stats.Aggregate(history.Records())
	}

	data := faceit.BuildData(profile, summary)
	site := Site{URL: faceit.ProfileURL(profile), Title: "Faceit"}

	return func(p *Player) {
		p.FaceitData = data
		p.InsertSite(FaceitSiteIndex, site)
	}, nil
}
