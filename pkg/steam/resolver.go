package steam

import (
	"context"
	"fmt"
	"net/url"

	"github.com/profile-peek/profile-peek/pkg/client"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the Steam Web API root.
	DefaultBaseURL = "https://api.steampowered.com"

	vanityPath = "/ISteamUser/ResolveVanityURL/v0001/"

	// vanitySuccess is the "success" value of a resolved name.
	vanitySuccess = 1
)

// vanityResponse is the ResolveVanityURL body.
type vanityResponse struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

// Resolver turns normalized profile URLs into SteamID64s.
type Resolver struct {
	api    *client.Client
	apiKey string
	logger zerolog.Logger
}

// NewResolver creates a resolver that calls the Steam Web API through api.
func NewResolver(api *client.Client, apiKey string, logger zerolog.Logger) (*Resolver, error) {
	if api == nil {
		return nil, fmt.Errorf("steam api client is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("steam api key is required")
	}
	return &Resolver{api: api, apiKey: apiKey, logger: logger}, nil
}

// Resolve dispatches on Classify: direct URLs resolve locally, vanity URLs
// take exactly one Steam API call.
func (r *Resolver) Resolve(ctx context.Context, p ProfileURL) (string, error) {
	if Classify(p) == Vanity {
		return r.ResolveVanity(ctx, p)
	}
	return ResolveDirect(p)
}

// ResolveVanity looks up the SteamID64 behind an /id/<name> URL. Any
// transport error, non-2xx status, undecodable body or missing steamid is
// reported as ErrVanityResolutionFailed. There are no retries.
func (r *Resolver) ResolveVanity(ctx context.Context, p ProfileURL) (string, error) {
	name, ok := vanityName(p)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a vanity url", ErrVanityResolutionFailed, p)
	}

	query := url.Values{
		"key":       {r.apiKey},
		"vanityurl": {name},
	}

	var body vanityResponse
	if err := r.api.GetJSON(ctx, vanityPath, query, &body); err != nil {
		r.logger.Warn().Err(err).Str("vanity", name).Msg("Vanity lookup failed")
		return "", fmt.Errorf("%w: %s: %w", ErrVanityResolutionFailed, name, err)
	}

	if body.Response.Success != vanitySuccess || body.Response.SteamID == "" {
		r.logger.Debug().
			Str("vanity", name).
			Int("success", body.Response.Success).
			Str("message", body.Response.Message).
			Msg("Vanity name not resolved")
		return "", fmt.Errorf("%w: no steam id for %q", ErrVanityResolutionFailed, name)
	}

	r.logger.Debug().Str("vanity", name).Str("steam_id", body.Response.SteamID).Msg("Vanity name resolved")
	return body.Response.SteamID, nil
}
