// Package circulation owns the lending lifecycle of copies: renewals, loan
// listings and status changes. Every mutation checks that the copy exists
// before checking the actor's capability.
package circulation

import (
	"context"
	"time"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/circulation/pkg/copies"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/shishobooks/circulation/pkg/renewal"
	"github.com/uptrace/bun"
)

// Actor is whoever is asking. *models.User satisfies it.
type Actor interface {
	UserID() int
	HasCapability(capability string) bool
}

// RenewalForm is what a librarian sees before renewing a copy.
type RenewalForm struct {
	Copy         *models.BookInstance `json:"copy"`
	ProposedDate time.Time            `json:"renewal_date"`
}

type Service struct {
	copyService *copies.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		copyService: copies.NewService(db),
	}
}

// Renew moves the due date of a copy to proposed. The status is left alone.
func (svc *Service) Renew(ctx context.Context, actor Actor, id string, proposed, today time.Time) (*models.BookInstance, error) {
	bi, err := svc.lookupForMaintainer(ctx, actor, id, "Renewing a book")
	if err != nil {
		return nil, err
	}

	dueBack, err := renewal.Validate(proposed, today)
	if err != nil {
		return nil, err
	}

	if err := svc.copyService.UpdateDueDate(ctx, bi.ID, &dueBack); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("renewed copy", logger.Data{
		"copy_id":  bi.ID,
		"actor_id": actor.UserID(),
		"due_back": dueBack.Format(models.DateLayout),
	})

	return svc.copyService.RetrieveCopy(ctx, bi.ID)
}

// RenewalForm returns the copy along with the default renewal date.
func (svc *Service) RenewalForm(ctx context.Context, actor Actor, id string, today time.Time) (*RenewalForm, error) {
	bi, err := svc.lookupForMaintainer(ctx, actor, id, "Renewing a book")
	if err != nil {
		return nil, err
	}

	return &RenewalForm{
		Copy:         bi,
		ProposedDate: renewal.DefaultProposal(today),
	}, nil
}

// ListMyLoans returns the copies on loan to actor. Any authenticated actor
// may call it.
func (svc *Service) ListMyLoans(ctx context.Context, actor Actor) ([]*models.BookInstance, error) {
	if actor == nil {
		return nil, errcodes.Unauthorized("Authentication required")
	}
	return svc.copyService.ListByBorrower(ctx, actor.UserID())
}

// ListAllLoans returns every copy on loan. It needs can_mark_returned.
func (svc *Service) ListAllLoans(ctx context.Context, actor Actor) ([]*models.BookInstance, error) {
	if actor == nil {
		return nil, errcodes.Unauthorized("Authentication required")
	}
	if !actor.HasCapability(models.CapabilityCanMarkReturned) {
		return nil, errcodes.Forbidden("Viewing all loans")
	}
	return svc.copyService.ListOnLoan(ctx)
}

// ChangeStatus sets the status of a copy without enforcing any transition
// rules. Making a copy available also clears its borrower and due date.
func (svc *Service) ChangeStatus(ctx context.Context, actor Actor, id string, status models.LoanStatus) (*models.BookInstance, error) {
	bi, err := svc.lookupForMaintainer(ctx, actor, id, "Changing a copy's status")
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errcodes.ValidationError("Unknown status " + string(status))
	}

	columns := []string{"status"}
	bi.Status = status
	if status == models.LoanStatusAvailable {
		bi.BorrowerID = nil
		bi.DueBack = nil
		columns = append(columns, "borrower_id", "due_back")
	}

	if err := svc.copyService.UpdateCopy(ctx, bi, copies.UpdateCopyOptions{Columns: columns}); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("changed copy status", logger.Data{
		"copy_id":  bi.ID,
		"actor_id": actor.UserID(),
		"status":   string(status),
	})

	return svc.copyService.RetrieveCopy(ctx, bi.ID)
}

// Overdue reports whether bi is overdue as of today.
func Overdue(bi *models.BookInstance, today time.Time) bool {
	return bi.IsOverdue(today)
}

func (svc *Service) lookupForMaintainer(ctx context.Context, actor Actor, id, action string) (*models.BookInstance, error) {
	if actor == nil {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	bi, err := svc.copyService.RetrieveCopy(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.HasCapability(models.CapabilityCanMarkReturned) {
		return nil, errcodes.Forbidden(action)
	}

	return bi, nil
}
