package models

import (
	"time"

	"github.com/uptrace/bun"
)

// LoanStatus is the circulation state of a single copy.
type LoanStatus string

const (
	LoanStatusMaintenance LoanStatus = "m"
	LoanStatusOnLoan      LoanStatus = "o"
	LoanStatusAvailable   LoanStatus = "a"
	LoanStatusReserved    LoanStatus = "r"
)

var loanStatusLabels = map[LoanStatus]string{
	LoanStatusMaintenance: "Maintenance",
	LoanStatusOnLoan:      "On loan",
	LoanStatusAvailable:   "Available",
	LoanStatusReserved:    "Reserved",
}

func (s LoanStatus) Valid() bool {
	_, ok := loanStatusLabels[s]
	return ok
}

// Label is the human readable name of the status.
func (s LoanStatus) Label() string {
	return loanStatusLabels[s]
}

// BookInstance is one physical, lendable copy of a Book. Its ID is a random
// UUID so copies can't be enumerated by guessing.
type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi" tstype:"-"`

	ID         string     `bun:",pk" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	BookID     *int       `json:"book_id"`
	Book       *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty" tstype:"Book"`
	Imprint    string     `bun:",notnull" json:"imprint"`
	DueBack    *time.Time `json:"due_back"`
	BorrowerID *int       `json:"borrower_id"`
	Borrower   *User      `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty" tstype:"User"`
	Status     LoanStatus `bun:",notnull" json:"status" tstype:"LoanStatus"`
}

// IsOverdue reports whether the copy has a due date strictly before today.
// Status is ignored, so a copy whose status was never updated still
// shows up as late.
func (bi *BookInstance) IsOverdue(today time.Time) bool {
	if bi.DueBack == nil {
		return false
	}
	return Day(*bi.DueBack).Before(Day(today))
}

func (bi *BookInstance) String() string {
	title := ""
	if bi.Book != nil {
		title = bi.Book.Title
	}
	return bi.ID + " (" + title + ")"
}
