package models

import (
	"fmt"
	"strings"
	"unicode"
)

// Regular season bounds
const (
	MinWeek = 1
	MaxWeek = 18
)

var nameSuffixes = map[string]bool{
	"jr":  true,
	"sr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
	"v":   true,
}

// NormalizeName maps a raw player or team name to its canonical join key.
// "J. Doe Jr." and "J Doe" both normalize to "j doe". The mapping is total and idempotent.
func NormalizeName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune(' ')
		}
		// remaining punctuation (periods, apostrophes, commas) is dropped
	}

	tokens := strings.Fields(b.String())
	for len(tokens) > 1 && nameSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// NormalizeTeam canonicalizes a team abbreviation ("kc " -> "KC")
func NormalizeTeam(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// Period identifies one regular season week
type Period struct {
	Season int `json:"season" db:"season"`
	Week   int `json:"week" db:"week"`
}

// Validate checks the week range and season
func (p Period) Validate() error {
	if p.Week < MinWeek || p.Week > MaxWeek {
		return NewInvalidInput("week", "must be between %d and %d, got %d", MinWeek, MaxWeek, p.Week)
	}
	if p.Season < 2000 || p.Season > 2100 {
		return NewInvalidInput("season", "must be between 2000 and 2100, got %d", p.Season)
	}
	return nil
}

// Window returns the inclusive week range looking back n weeks from p, clipped to week 1
func (p Period) Window(lookback int) (from, to int) {
	from = p.Week - lookback
	if from < MinWeek {
		from = MinWeek
	}
	return from, p.Week
}

func (p Period) String() string {
	return fmt.Sprintf("%d-W%02d", p.Season, p.Week)
}
