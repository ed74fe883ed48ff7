package models

import "time"

// RedZoneYardLine is the distance from the goal line that starts the red zone
const RedZoneYardLine = 20

// StatAggregate is one imported row per (entity, season, week)
type StatAggregate struct {
	Entity          string    `db:"entity" json:"entity" validate:"required"`
	Team            string    `db:"team" json:"team"`
	Season          int       `db:"season" json:"season" validate:"required,gte=2000"`
	Week            int       `db:"week" json:"week" validate:"required,gte=1,lte=18"`
	Attempts        int       `db:"attempts" json:"attempts" validate:"gte=0"`
	Scores          int       `db:"scores" json:"scores" validate:"gte=0"`
	ZoneEntries     int       `db:"zone_entries" json:"zone_entries" validate:"gte=0"`
	ZoneCompletions int       `db:"zone_completions" json:"zone_completions" validate:"gte=0"`
	Targets         int       `db:"targets" json:"targets" validate:"gte=0"`
	Touches         int       `db:"touches" json:"touches" validate:"gte=0"`
	ImportedAt      time.Time `db:"imported_at" json:"imported_at"`
}

// Key returns the upsert key for the row
func (s *StatAggregate) Key() string {
	return NormalizeName(s.Entity) + "|" + Period{Season: s.Season, Week: s.Week}.String()
}

// ContextRecord is a single play-level observation.
// Outcome is a sentinel in the source feed and must never be read as a scoring result.
type ContextRecord struct {
	Entity   string `db:"entity" json:"entity"`
	Team     string `db:"team" json:"team"`
	Season   int    `db:"season" json:"season"`
	Week     int    `db:"week" json:"week"`
	YardLine int    `db:"yardline_100" json:"yardline_100"`
	Down     int    `db:"down" json:"down"`
	Distance int    `db:"distance" json:"distance"`
	Outcome  int    `db:"outcome" json:"outcome"`
}

// InRedZone reports whether the snap started inside the opponent 20
func (c *ContextRecord) InRedZone() bool {
	return c.YardLine > 0 && c.YardLine <= RedZoneYardLine
}

// WindowTotals are summed StatAggregate values over a week range.
// Volume is attempts plus targets; ZoneScores sums zone completions.
type WindowTotals struct {
	Scores      int `json:"scores"`
	Volume      int `json:"volume"`
	ZoneEntries int `json:"zone_entries"`
	ZoneScores  int `json:"zone_scores"`
	Weeks       int `json:"weeks"`
}

// DefenseAggregate is one imported row per (team, season, week) of what a defense allowed
type DefenseAggregate struct {
	Team               string `db:"team" json:"team" validate:"required"`
	Season             int    `db:"season" json:"season" validate:"required,gte=2000"`
	Week               int    `db:"week" json:"week" validate:"required,gte=1,lte=18"`
	ZoneEntriesAllowed int    `db:"zone_entries_allowed" json:"zone_entries_allowed" validate:"gte=0"`
	ScoresAllowed      int    `db:"scores_allowed" json:"scores_allowed" validate:"gte=0"`
}

// DefenseRate is the opponent's scores allowed per zone entry allowed
type DefenseRate struct {
	Team  string  `json:"team"`
	Rate  float64 `json:"rate"`
	Weeks int     `json:"weeks"`
	Found bool    `json:"found"`
}

// Market names a prop market
type Market string

// Supported prop markets
const (
	MarketAnytimeTD   Market = "anytime_td"
	MarketMultiTD     Market = "multi_td"
	MarketTeamTDTotal Market = "team_td_total"
)

// PropLine is a sportsbook price for one entity in one market
type PropLine struct {
	Entity    string  `db:"entity" json:"entity"`
	Team      string  `db:"team" json:"team"`
	Opponent  string  `db:"opponent" json:"opponent"`
	Home      bool    `db:"home" json:"home"`
	Market    Market  `db:"market" json:"market"`
	Line      float64 `db:"line" json:"line"`
	OverOdds  int     `db:"over_odds" json:"over_odds"`
	UnderOdds *int    `db:"under_odds" json:"under_odds"`
	Book      string  `db:"book" json:"book"`
}

// Matchup is the prediction input for a single entity
type Matchup struct {
	Entity   string
	Team     string
	Opponent string
	Home     bool
	Period   Period
}

// MatchupFromLine builds a normalized matchup for a prop line
func MatchupFromLine(line PropLine, period Period) Matchup {
	return Matchup{
		Entity:   NormalizeName(line.Entity),
		Team:     NormalizeTeam(line.Team),
		Opponent: NormalizeTeam(line.Opponent),
		Home:     line.Home,
		Period:   period,
	}
}
