package renewal

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func TestValidate_InPast(t *testing.T) {
	t.Parallel()

	for _, days := range []int{-1, -7, -365} {
		_, err := Validate(today.AddDate(0, 0, days), today)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDateInPast), "days=%d", days)
		assert.Equal(t, "Invalid date - renewal in past", err.Error())
	}
}

func TestValidate_TooFarAhead(t *testing.T) {
	t.Parallel()

	for _, days := range []int{29, 35, 400} {
		_, err := Validate(today.AddDate(0, 0, days), today)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDateTooFarAhead), "days=%d", days)
		assert.Equal(t, "Invalid date - renewal more than 4 weeks ahead", err.Error())
	}
}

func TestValidate_WithinWindow(t *testing.T) {
	t.Parallel()

	for days := 0; days <= MaxDaysAhead; days++ {
		proposed := today.AddDate(0, 0, days)
		got, err := Validate(proposed, today)
		require.NoError(t, err, "days=%d", days)
		assert.Equal(t, proposed, got)
	}
}

func TestValidate_ComparesCalendarDates(t *testing.T) {
	t.Parallel()

	now := today.Add(18 * time.Hour)

	got, err := Validate(today, now)
	require.NoError(t, err)
	assert.Equal(t, today, got)

	_, err = Validate(today.AddDate(0, 0, MaxDaysAhead), now)
	require.NoError(t, err)
}

func TestDefaultProposal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, today.AddDate(0, 0, 21), DefaultProposal(today.Add(9*time.Hour)))

	_, err := Validate(DefaultProposal(today), today)
	require.NoError(t, err)
}
