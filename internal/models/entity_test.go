package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "initial with suffix", raw: "J. Doe Jr.", expected: "j doe"},
		{name: "plain initial", raw: "J Doe", expected: "j doe"},
		{name: "extra whitespace", raw: "  Travis   Kelce \t", expected: "travis kelce"},
		{name: "roman numeral suffix", raw: "Marvin Harrison III", expected: "marvin harrison"},
		{name: "apostrophe", raw: "Ja'Marr Chase", expected: "jamarr chase"},
		{name: "hyphenated", raw: "Amon-Ra St. Brown", expected: "amon ra st brown"},
		{name: "comma before suffix", raw: "Odell Beckham, Jr.", expected: "odell beckham"},
		{name: "suffix only is kept", raw: "Jr", expected: "jr"},
		{name: "empty", raw: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.raw))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	raws := []string{"J. Doe Jr.", "Ja'Marr Chase", "Amon-Ra St. Brown", "  KC  ", "Patrick Mahomes II"}
	for _, raw := range raws {
		once := NormalizeName(raw)
		assert.Equal(t, once, NormalizeName(once), raw)
	}
}

func TestNormalizeTeam(t *testing.T) {
	assert.Equal(t, "KC", NormalizeTeam(" kc "))
	assert.Equal(t, "SF", NormalizeTeam("SF"))
}

func TestPeriodValidate(t *testing.T) {
	require.NoError(t, Period{Season: 2024, Week: 1}.Validate())
	require.NoError(t, Period{Season: 2024, Week: 18}.Validate())

	err := Period{Season: 2024, Week: 0}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var inputErr *InvalidInputError
	require.ErrorAs(t, Period{Season: 2024, Week: 19}.Validate(), &inputErr)
	assert.Equal(t, "week", inputErr.Field)

	assert.ErrorIs(t, Period{Season: 1999, Week: 3}.Validate(), ErrInvalidInput)
}

func TestPeriodWindow(t *testing.T) {
	from, to := Period{Season: 2024, Week: 6}.Window(4)
	assert.Equal(t, 2, from)
	assert.Equal(t, 6, to)

	from, to = Period{Season: 2024, Week: 2}.Window(4)
	assert.Equal(t, 1, from)
	assert.Equal(t, 2, to)
}
