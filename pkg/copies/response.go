package copies

import (
	"time"

	"github.com/shishobooks/circulation/pkg/models"
)

// Response is the API shape of a copy. Overdue is computed against the
// caller's today and never stored.
type Response struct {
	*models.BookInstance
	StatusLabel string `json:"status_label"`
	IsOverdue   bool   `json:"is_overdue"`
}

func NewResponse(bi *models.BookInstance, today time.Time) Response {
	return Response{
		BookInstance: bi,
		StatusLabel:  bi.Status.Label(),
		IsOverdue:    bi.IsOverdue(today),
	}
}

func NewResponses(copies []*models.BookInstance, today time.Time) []Response {
	result := make([]Response, len(copies))
	for i, bi := range copies {
		result[i] = NewResponse(bi, today)
	}
	return result
}
