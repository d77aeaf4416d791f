package copies

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

// dueBackOrder is the default copy ordering. Copies without a due date come
// first, and the id breaks ties so repeated listings are stable.
const dueBackOrder = "bi.due_back IS NOT NULL, bi.due_back ASC, bi.id ASC"

type CreateCopyOptions struct {
	BookID     *int
	Imprint    string
	DueBack    *time.Time
	BorrowerID *int
	Status     models.LoanStatus
}

type ListCopiesOptions struct {
	BookID     *int
	BorrowerID *int
	Status     *models.LoanStatus
}

type UpdateCopyOptions struct {
	Columns []string
}

// Service is the copy registry. It stores and queries BookInstance rows and
// enforces no circulation rules of its own.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateCopy stores a new copy under a fresh random id. Status defaults to
// maintenance.
func (svc *Service) CreateCopy(ctx context.Context, opts CreateCopyOptions) (*models.BookInstance, error) {
	if err := svc.checkReferences(ctx, opts.BookID, opts.BorrowerID); err != nil {
		return nil, err
	}

	status := opts.Status
	if status == "" {
		status = models.LoanStatusMaintenance
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	bi := &models.BookInstance{
		ID:         id.String(),
		CreatedAt:  now,
		UpdatedAt:  now,
		BookID:     opts.BookID,
		Imprint:    opts.Imprint,
		DueBack:    normalizeDate(opts.DueBack),
		BorrowerID: opts.BorrowerID,
		Status:     status,
	}

	_, err = svc.db.NewInsert().Model(bi).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return svc.RetrieveCopy(ctx, bi.ID)
}

// RetrieveCopy loads a copy with its book and borrower.
func (svc *Service) RetrieveCopy(ctx context.Context, id string) (*models.BookInstance, error) {
	bi := &models.BookInstance{}

	err := svc.db.NewSelect().
		Model(bi).
		Relation("Book").
		Relation("Borrower").
		Where("bi.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	return bi, nil
}

func (svc *Service) ListCopies(ctx context.Context, opts ListCopiesOptions) ([]*models.BookInstance, error) {
	copies := []*models.BookInstance{}

	q := svc.db.NewSelect().
		Model(&copies).
		Relation("Book").
		Relation("Borrower").
		OrderExpr(dueBackOrder)
	q = applyFilters(q, opts)

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return copies, nil
}

// ListByBorrower returns the copies currently on loan to userID.
func (svc *Service) ListByBorrower(ctx context.Context, userID int) ([]*models.BookInstance, error) {
	status := models.LoanStatusOnLoan
	return svc.ListCopies(ctx, ListCopiesOptions{
		BorrowerID: &userID,
		Status:     &status,
	})
}

// ListOnLoan returns every copy on loan, whoever holds it.
func (svc *Service) ListOnLoan(ctx context.Context) ([]*models.BookInstance, error) {
	status := models.LoanStatusOnLoan
	return svc.ListCopies(ctx, ListCopiesOptions{Status: &status})
}

func (svc *Service) CountCopies(ctx context.Context, opts ListCopiesOptions) (int, error) {
	q := svc.db.NewSelect().Model((*models.BookInstance)(nil))
	count, err := applyFilters(q, opts).Count(ctx)
	return count, errors.WithStack(err)
}

// UpdateCopy writes the named columns of bi.
func (svc *Service) UpdateCopy(ctx context.Context, bi *models.BookInstance, opts UpdateCopyOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	var bookID, borrowerID *int
	if slices.Contains(opts.Columns, "book_id") {
		bookID = bi.BookID
	}
	if slices.Contains(opts.Columns, "borrower_id") {
		borrowerID = bi.BorrowerID
	}
	if err := svc.checkReferences(ctx, bookID, borrowerID); err != nil {
		return err
	}

	bi.UpdatedAt = time.Now()
	bi.DueBack = normalizeDate(bi.DueBack)
	columns := slices.Concat(opts.Columns, []string{"updated_at"})

	res, err := svc.db.NewUpdate().
		Model(bi).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}

func (svc *Service) UpdateStatus(ctx context.Context, id string, status models.LoanStatus) error {
	return svc.UpdateCopy(ctx, &models.BookInstance{ID: id, Status: status}, UpdateCopyOptions{
		Columns: []string{"status"},
	})
}

// UpdateDueDate sets the due date, or clears it when dueBack is nil.
func (svc *Service) UpdateDueDate(ctx context.Context, id string, dueBack *time.Time) error {
	return svc.UpdateCopy(ctx, &models.BookInstance{ID: id, DueBack: dueBack}, UpdateCopyOptions{
		Columns: []string{"due_back"},
	})
}

// UpdateBorrower sets the borrower, or clears it when userID is nil.
func (svc *Service) UpdateBorrower(ctx context.Context, id string, userID *int) error {
	return svc.UpdateCopy(ctx, &models.BookInstance{ID: id, BorrowerID: userID}, UpdateCopyOptions{
		Columns: []string{"borrower_id"},
	})
}

func (svc *Service) DeleteCopy(ctx context.Context, id string) error {
	res, err := svc.db.NewDelete().
		Model((*models.BookInstance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}

// checkReferences makes sure the book and borrower a copy points at exist.
// Nil ids are not checked.
func (svc *Service) checkReferences(ctx context.Context, bookID, borrowerID *int) error {
	if bookID != nil {
		exists, err := svc.db.NewSelect().
			Model((*models.Book)(nil)).
			Where("b.id = ?", *bookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Book")
		}
	}
	if borrowerID != nil {
		exists, err := svc.db.NewSelect().
			Model((*models.User)(nil)).
			Where("u.id = ?", *borrowerID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("User")
		}
	}
	return nil
}

func applyFilters(q *bun.SelectQuery, opts ListCopiesOptions) *bun.SelectQuery {
	if opts.BookID != nil {
		q = q.Where("bi.book_id = ?", *opts.BookID)
	}
	if opts.BorrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}
	return q
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := models.Day(*t)
	return &d
}
