// Package stats folds a window of historical match records into summary
// statistics.
package stats

import (
	"math"
	"strconv"
	"strings"
)

// WinMarker is the result flag of a won match.
const WinMarker = "1"

// Match is one match's raw per-player statistics, as strings.
type Match struct {
	ADR         string
	Kills       string
	Deaths      string
	KRRatio     string
	Headshots   string
	DoubleKills string
	TripleKills string
	QuadroKills string
	PentaKills  string
	Result      string
}

// Summary is the aggregate over a window of matches. The zero value is the
// summary of an empty or missing window.
type Summary struct {
	ADR                float64 `json:"adr"`
	Wins               int     `json:"wins"`
	Losses             int     `json:"losses"`
	WinRate            int     `json:"win_rate"`
	Kills              int     `json:"kills"`
	Deaths             int     `json:"deaths"`
	KDRatio            float64 `json:"kd_ratio"`
	KRRatio            float64 `json:"kr_ratio"`
	Headshots          int     `json:"headshots"`
	HeadshotPercentage float64 `json:"headshot_percentage"`
	DoubleKills        int     `json:"double_kills"`
	TripleKills        int     `json:"triple_kills"`
	QuadroKills        int     `json:"quadro_kills"`
	PentaKills         int     `json:"penta_kills"`
}

// Aggregate folds matches into a Summary. A nil or empty slice yields the
// zero Summary. A field that does not parse is skipped for that match only.
// Averages divide by the number of matches; ratios are 0 when their
// denominator is 0.
func Aggregate(matches []Match) Summary {
	var (
		s          Summary
		totalADR   float64
		totalKR    float64
		matchCount = len(matches)
	)

	for _, m := range matches {
		if v, ok := parseFloat(m.ADR); ok {
			totalADR += v
		}
		if v, ok := parseFloat(m.KRRatio); ok {
			totalKR += v
		}

		if m.Result == WinMarker {
			s.Wins++
		} else {
			s.Losses++
		}

		addCount(&s.Kills, m.Kills)
		addCount(&s.Deaths, m.Deaths)
		addCount(&s.Headshots, m.Headshots)
		addCount(&s.DoubleKills, m.DoubleKills)
		addCount(&s.TripleKills, m.TripleKills)
		addCount(&s.QuadroKills, m.QuadroKills)
		addCount(&s.PentaKills, m.PentaKills)
	}

	if matchCount > 0 {
		s.ADR = totalADR / float64(matchCount)
		s.KRRatio = totalKR / float64(matchCount)
	}
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = int(math.Round(float64(s.Wins) / float64(decided) * 100))
	}
	if s.Deaths > 0 {
		s.KDRatio = float64(s.Kills) / float64(s.Deaths)
	}
	if s.Kills > 0 {
		s.HeadshotPercentage = float64(s.Headshots) / float64(s.Kills) * 100
	}

	return s
}

// parseFloat parses a decimal statistic. NaN and infinities are rejected so
// one bad record cannot poison an average.
func parseFloat(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseCount parses a non-negative integer counter.
func parseCount(raw string) (int, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func addCount(total *int, raw string) {
	if v, ok := parseCount(raw); ok {
		*total += v
	}
}
