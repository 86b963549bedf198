// Package player assembles the externally visible player entity and runs the
// cache-aside lookup pipeline.
package player

import "github.com/profile-peek/profile-peek/pkg/faceit"

// Player is the payload served for a profile URL.
type Player struct {
	SteamID    string       `json:"steam_id"`
	FaceitData *faceit.Data `json:"faceit_data"`
	Sites      []Site       `json:"sites"`
}

// Site is a link to the player on a partner site.
type Site struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// New returns a player with the partner sites every player gets.
func New(steamID string) *Player {
	return &Player{
		SteamID: steamID,
		Sites: []Site{
			{URL: "https://steamcommunity.com/profiles/" + steamID, Title: "Steam"},
			{URL: "https://leetify.com/app/profile/" + steamID, Title: "Leetify"},
			{URL: "https://csstats.gg/player/" + steamID, Title: "CsStats"},
		},
	}
}

// InsertSite places s at index i, clamped to the list bounds.
func (p *Player) InsertSite(i int, s Site) {
	if i < 0 {
		i = 0
	}
	if i > len(p.Sites) {
		i = len(p.Sites)
	}
	p.Sites = append(p.Sites, Site{})
	copy(p.Sites[i+1:], p.Sites[i:])
	p.Sites[i] = s
}
