package faceit

import (
	"strings"
	"time"

	"github.com/profile-peek/profile-peek/pkg/stats"
)

// Data is the faceit_data object of a player.
type Data struct {
	AccountCreated int64   `json:"account_created"`
	Avatar         *string `json:"avatar"`
	Country        string  `json:"country"`
	Nickname       string  `json:"nickname"`
	Level          int     `json:"level"`
	Elo            int     `json:"elo"`
	stats.Summary
}

// BuildData merges a profile with its match summary. A nil profile yields
// nil. Level and elo come from the cs2 entry and stay 0 without one.
func BuildData(profile *Profile, summary stats.Summary) *Data {
	if profile == nil {
		return nil
	}

	d := &Data{
		AccountCreated: accountCreated(profile.ActivatedAt),
		Avatar:         profile.Avatar,
		Country:        profile.Country,
		Nickname:       profile.Nickname,
		Summary:        summary,
	}
	if cs2 := profile.Games.CS2; cs2 != nil {
		d.Level = cs2.SkillLevel
		d.Elo = cs2.FaceitElo
	}
	return d
}

// ProfileURL returns the player's FACEIT page in English.
func ProfileURL(profile *Profile) string {
	if profile == nil {
		return ""
	}
	return strings.ReplaceAll(profile.FaceitURL, "{lang}", "en")
}

// accountCreated converts activated_at to unix seconds, or 0 when it does
// not parse.
func accountCreated(activatedAt string) int64 {
	t, err := time.Parse(time.RFC3339, activatedAt)
	if err != nil {
		return 0
	}
	return t.Unix()
}
