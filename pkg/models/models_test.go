package models

import (
	"testing"
	"time"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBookInstanceIsOverdue(t *testing.T) {
	t.Parallel()

	today := date(t, "2026-10-19")

	cases := []struct {
		name    string
		dueBack *time.Time
		status  LoanStatus
		overdue bool
	}{
		{"no due date", nil, LoanStatusOnLoan, false},
		{"due yesterday", pointerutil.Time(date(t, "2026-10-18")), LoanStatusOnLoan, true},
		{"due today", pointerutil.Time(today), LoanStatusOnLoan, false},
		{"due tomorrow", pointerutil.Time(date(t, "2026-10-20")), LoanStatusOnLoan, false},
		{"past due while available", pointerutil.Time(date(t, "2026-09-01")), LoanStatusAvailable, true},
		{"past due in maintenance", pointerutil.Time(date(t, "2026-09-01")), LoanStatusMaintenance, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bi := &BookInstance{DueBack: tc.dueBack, Status: tc.status}
			assert.Equal(t, tc.overdue, bi.IsOverdue(today))
		})
	}
}

func TestBookInstanceIsOverdue_IgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	due := date(t, "2026-10-19")
	lateEvening := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	bi := &BookInstance{DueBack: &due}

	assert.False(t, bi.IsOverdue(lateEvening))
	assert.True(t, bi.IsOverdue(lateEvening.Add(time.Minute)))
}

func TestBookInstanceString(t *testing.T) {
	t.Parallel()

	bi := &BookInstance{ID: "0f8a", Book: &Book{Title: "Dune"}}
	assert.Equal(t, "0f8a (Dune)", bi.String())
}

func TestLoanStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, LoanStatusOnLoan.Valid())
	assert.Equal(t, "On loan", LoanStatusOnLoan.Label())
	assert.False(t, LoanStatus("x").Valid())
	assert.False(t, LoanStatus("").Valid())
}

func TestAuthorString(t *testing.T) {
	t.Parallel()

	a := &Author{FirstName: "Ursula", LastName: "Le Guin"}
	assert.Equal(t, "Le Guin, Ursula", a.String())
}

func TestBookDisplayGenre(t *testing.T) {
	t.Parallel()

	b := &Book{BookGenres: []*BookGenre{
		{Genre: &Genre{Name: "Fantasy"}},
		{Genre: &Genre{Name: "Science Fiction"}},
		{Genre: &Genre{Name: "Drama"}},
		{Genre: &Genre{Name: "Horror"}},
	}}
	assert.Equal(t, "Fantasy, Science Fiction, Drama", b.DisplayGenre())
	assert.Equal(t, "", (&Book{}).DisplayGenre())
}

func TestUserHasCapability(t *testing.T) {
	t.Parallel()

	librarian := &User{Role: &Role{Permissions: []*Permission{{Capability: CapabilityCanMarkReturned}}}}
	member := &User{Role: &Role{}}

	assert.True(t, librarian.HasCapability(CapabilityCanMarkReturned))
	assert.Equal(t, []string{CapabilityCanMarkReturned}, librarian.Capabilities())
	assert.False(t, member.HasCapability(CapabilityCanMarkReturned))
	assert.False(t, (&User{}).HasCapability(CapabilityCanMarkReturned))
}
