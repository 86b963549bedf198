package faceit

import "github.com/profile-peek/profile-peek/pkg/stats"

// Profile is the subset of the FACEIT player details response we use.
type Profile struct {
	PlayerID    string  `json:"player_id"`
	Nickname    string  `json:"nickname"`
	Avatar      *string `json:"avatar"`
	Country     string  `json:"country"`
	FaceitURL   string  `json:"faceit_url"`
	SteamID64   string  `json:"steam_id_64"`
	ActivatedAt string  `json:"activated_at"`
	Games       Games   `json:"games"`
}

// Games holds per-game ranking details.
type Games struct {
	CS2  *GameDetails `json:"cs2"`
	CSGO *GameDetails `json:"csgo"`
}

// GameDetails is one game's skill rating.
type GameDetails struct {
	Region         string `json:"region"`
	GamePlayerID   string `json:"game_player_id"`
	SkillLevel     int    `json:"skill_level"`
	FaceitElo      int    `json:"faceit_elo"`
	GamePlayerName string `json:"game_player_name"`
}

// MatchHistory is the cs2 stats page for a player.
type MatchHistory struct {
	Start int         `json:"start"`
	End   int         `json:"end"`
	Items []MatchItem `json:"items"`
}

// MatchItem wraps one match's stats.
type MatchItem struct {
	Stats MatchStats `json:"stats"`
}

// MatchStats is one match's per-player statistics. FACEIT sends the values
// as strings.
type MatchStats struct {
	MatchID     string `json:"Match Id"`
	Map         string `json:"Map"`
	ADR         string `json:"ADR"`
	Kills       string `json:"Kills"`
	Deaths      string `json:"Deaths"`
	KRRatio     string `json:"K/R Ratio"`
	Headshots   string `json:"Headshots"`
	DoubleKills string `json:"Double Kills"`
	TripleKills string `json:"Triple Kills"`
	QuadroKills string `json:"Quadro Kills"`
	PentaKills  string `json:"Penta Kills"`
	Result      string `json:"Result"`
}

// Record converts the stats into the aggregator's input.
func (m MatchStats) Record() stats.Match {
	return stats.Match{
		ADR:         m.ADR,
		Kills:       m.Kills,
		Deaths:      m.Deaths,
		KRRatio:     m.KRRatio,
		Headshots:   m.Headshots,
		DoubleKills: m.DoubleKills,
		TripleKills: m.TripleKills,
		QuadroKills: m.QuadroKills,
		PentaKills:  m.PentaKills,
		Result:      m.Result,
	}
}

// Records converts every match in the window. A nil history yields nil.
func (h *MatchHistory) Records() []stats.Match {
	if h == nil {
		return nil
	}
	records := make([]stats.Match, 0, len(h.Items))
	for _, item := range h.Items {
		records = append(records, item.Stats.Record())
	}
	return records
}
