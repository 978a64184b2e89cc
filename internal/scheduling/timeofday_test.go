package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+30), got)
	assert.Equal(t, "09:30", got.String())

	midnight, err := ParseTimeOfDay("00:00")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(0), midnight)
}

func TestParseTimeOfDayInvalid(t *testing.T) {
	for _, input := range []string{"", "9am", "25:00", "09:65", "0930"} {
		_, err := ParseTimeOfDay(input)
		assert.Error(t, err, "input %q", input)
		assert.True(t, IsValidation(err), "input %q", input)
	}
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "Monday", day.Weekday().String())

	_, err = ParseDate("03/02/2026")
	assert.True(t, IsValidation(err))
}

func TestOnGrid(t *testing.T) {
	start := TimeOfDay(9 * 60)
	assert.True(t, onGrid(start, start))
	assert.True(t, onGrid(start, start.Add(30)))
	assert.True(t, onGrid(start, start.Add(120)))
	assert.False(t, onGrid(start, start.Add(15)))
	assert.False(t, onGrid(start, start-30), "slot before window start is off grid")
}
