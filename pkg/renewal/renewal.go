// Package renewal holds the due date policy for renewing a loan. It never
// reads the clock: callers pass in "today".
package renewal

import (
	"time"

	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
)

const (
	// MaxDaysAhead is how far past today a renewal may push the due date.
	MaxDaysAhead = 28
	// DefaultWeeksAhead is the renewal date offered before the librarian
	// picks one.
	DefaultWeeksAhead = 3
)

var (
	ErrDateInPast      = errcodes.ValidationError("Invalid date - renewal in past")
	ErrDateTooFarAhead = errcodes.ValidationError("Invalid date - renewal more than 4 weeks ahead")
)

// Validate returns proposed unchanged when it falls within
// [today, today+MaxDaysAhead], and ErrDateInPast or ErrDateTooFarAhead
// otherwise. Both dates are compared as calendar dates.
func Validate(proposed, today time.Time) (time.Time, error) {
	day := models.Day(proposed)
	start := models.Day(today)

	if day.Before(start) {
		return time.Time{}, ErrDateInPast
	}
	if day.After(start.AddDate(0, 0, MaxDaysAhead)) {
		return time.Time{}, ErrDateTooFarAhead
	}
	return proposed, nil
}

// DefaultProposal is the date pre-filled on the renewal form.
func DefaultProposal(today time.Time) time.Time {
	return models.Day(today).AddDate(0, 0, 7*DefaultWeeksAhead)
}
