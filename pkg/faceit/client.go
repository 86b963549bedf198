// Package faceit fetches CS2 player profiles and recent match statistics
// from the FACEIT Data API and merges them into the player's faceit_data.
package faceit

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/profile-peek/profile-peek/pkg/client"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the FACEIT Data API v4 root.
const DefaultBaseURL = "https://open.faceit.com/data/v4"

// ErrNotFound is returned when FACEIT has no player for a Steam ID.
var ErrNotFound = errors.New("faceit player not found")

// Client reads players and their match history. The underlying API client
// carries the bearer token.
type Client struct {
	api         *client.Client
	matchWindow int
	logger      zerolog.Logger
}

// NewClient creates a FACEIT client. matchWindow limits the history page;
// zero keeps the provider's default page size.
func NewClient(api *client.Client, matchWindow int, logger zerolog.Logger) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("faceit api client is required")
	}
	if matchWindow < 0 {
		return nil, fmt.Errorf("invalid match window %d", matchWindow)
	}
	return &Client{api: api, matchWindow: matchWindow, logger: logger}, nil
}

// FetchProfile looks up the FACEIT player linked to steamID.
func (c *Client) FetchProfile(ctx context.Context, steamID string) (*Profile, error) {
	query := url.Values{
		"game":           {"csgo"},
		"game_player_id": {steamID},
	}

	var profile Profile
	if err := c.api.GetJSON(ctx, "/players", query, &profile); err != nil {
		if client.IsNotFound(err) {
			return nil, fmt.Errorf("%w: steam id %s", ErrNotFound, steamID)
		}
		return nil, fmt.Errorf("fetch faceit profile for %s: %w", steamID, err)
	}
	if profile.PlayerID == "" {
		return nil, fmt.Errorf("%w: steam id %s", ErrNotFound, steamID)
	}

	c.logger.Debug().
		Str("steam_id", steamID).
		Str("player_id", profile.PlayerID).
		Str("nickname", profile.Nickname).
		Msg("FACEIT profile fetched")
	return &profile, nil
}

// FetchMatchHistory returns the most recent CS2 match stats for playerID.
func (c *Client) FetchMatchHistory(ctx context.Context, playerID string) (*MatchHistory, error) {
	var query url.Values
	if c.matchWindow > 0 {
		query = url.Values{"limit": {strconv.Itoa(c.matchWindow)}}
	}

	path := "/players/" + url.PathEscape(playerID) + "/games/cs2/stats"

	var history MatchHistory
	if err := c.api.GetJSON(ctx, path, query, &history); err != nil {
		return nil, fmt.Errorf("fetch faceit match history for %s: %w", playerID, err)
	}

	c.logger.Debug().
		Str("player_id", playerID).
		Int("matches", len(history.Items)).
		Msg("FACEIT match history fetched")
	return &history, nil
}
