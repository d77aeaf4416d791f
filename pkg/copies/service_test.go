package copies

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/shishobooks/circulation/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CreateCopy(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := testutils.CreateBook(ctx, t, db, "Beloved")

	bi, err := svc.CreateCopy(ctx, CreateCopyOptions{
		BookID:  &book.ID,
		Imprint: "Knopf, 1987",
		DueBack: pointerutil.Time(testutils.Days(3).Add(17 * time.Hour)),
	})
	require.NoError(t, err)

	parsed, err := uuid.Parse(bi.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.Equal(t, models.LoanStatusMaintenance, bi.Status)
	require.NotNil(t, bi.Book)
	assert.Equal(t, "Beloved", bi.Book.Title)
	assert.Equal(t, bi.ID+" (Beloved)", bi.String())
	require.NotNil(t, bi.DueBack)
	assert.True(t, testutils.Days(3).Equal(*bi.DueBack))

	other, err := svc.CreateCopy(ctx, CreateCopyOptions{BookID: &book.ID, Imprint: "Knopf, 1987"})
	require.NoError(t, err)
	assert.NotEqual(t, bi.ID, other.ID)
}

func TestService_CreateCopy_UnknownBook(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)

	_, err := svc.CreateCopy(context.Background(), CreateCopyOptions{BookID: pointerutil.Int(404), Imprint: "Nowhere"})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))
}

func TestService_CreateCopy_UnknownBorrower(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := testutils.CreateBook(ctx, t, db, "Beloved")

	_, err := svc.CreateCopy(ctx, CreateCopyOptions{
		BookID:     &book.ID,
		Imprint:    "Knopf, 1987",
		BorrowerID: pointerutil.Int(9999),
		Status:     models.LoanStatusOnLoan,
	})
	assert.ErrorIs(t, err, errcodes.NotFound("User"))

	count, err := svc.CountCopies(ctx, ListCopiesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestService_UpdateCopy_UnknownReferences(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := testutils.CreateBook(ctx, t, db, "Beloved")
	bi := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusAvailable, nil)

	err := svc.UpdateCopy(ctx, &models.BookInstance{ID: bi.ID, BookID: pointerutil.Int(9999)}, UpdateCopyOptions{
		Columns: []string{"book_id"},
	})
	assert.ErrorIs(t, err, errcodes.NotFound("Book"))

	err = svc.UpdateBorrower(ctx, bi.ID, pointerutil.Int(9999))
	assert.ErrorIs(t, err, errcodes.NotFound("User"))

	stored, err := svc.RetrieveCopy(ctx, bi.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.BookID)
	assert.Equal(t, book.ID, *stored.BookID)
	assert.Nil(t, stored.BorrowerID)
}

func TestService_UpdateCopy_DoesNotGrowCallerColumns(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := testutils.CreateBook(ctx, t, db, "Beloved")
	bi := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusOnLoan, nil)

	columns := make([]string, 1, 4)
	columns[0] = "status"
	bi.Status = models.LoanStatusAvailable
	require.NoError(t, svc.UpdateCopy(ctx, bi, UpdateCopyOptions{Columns: columns}))

	assert.Equal(t, "", columns[:2][1])
}

func TestService_CreateCopy_WithoutBook(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)

	bi, err := svc.CreateCopy(context.Background(), CreateCopyOptions{Imprint: "Loose pages", Status: models.LoanStatusAvailable})
	require.NoError(t, err)
	assert.Nil(t, bi.BookID)
	assert.Equal(t, models.LoanStatusAvailable, bi.Status)
	assert.Equal(t, bi.ID+" ()", bi.String())
}

func TestService_RetrieveCopy_NotFound(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)

	_, err := svc.RetrieveCopy(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, errcodes.NotFound("Book instance"))
}

func TestService_Listings(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := testutils.CreateBook(ctx, t, db, "Beloved")
	alice := testutils.CreateUser(ctx, t, db, "alice", models.RoleMember)
	bob := testutils.CreateUser(ctx, t, db, "bob", models.RoleMember)

	aliceLate := testutils.CreateCopy(ctx, t, db, book, alice, models.LoanStatusOnLoan, pointerutil.Time(testutils.Days(8)))
	aliceSoon := testutils.CreateCopy(ctx, t, db, book, alice, models.LoanStatusOnLoan, pointerutil.Time(testutils.Days(2)))
	testutils.CreateCopy(ctx, t, db, book, alice, models.LoanStatusReserved, pointerutil.Time(testutils.Days(1)))
	bobs := testutils.CreateCopy(ctx, t, db, book, bob, models.LoanStatusOnLoan, nil)
	shelf := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusAvailable, nil)

	mine, err := svc.ListByBorrower(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{aliceSoon.ID, aliceLate.ID}, idsOf(mine))

	onLoan, err := svc.ListOnLoan(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{bobs.ID, aliceSoon.ID, aliceLate.ID}, idsOf(onLoan))

	all, err := svc.ListCopies(ctx, ListCopiesOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Nil(t, all[0].DueBack)
	assert.Nil(t, all[1].DueBack)
	assert.Contains(t, idsOf(all[:2]), shelf.ID)

	available := models.LoanStatusAvailable
	count, err := svc.CountCopies(ctx, ListCopiesOptions{Status: &available})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_FieldUpdates(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := testutils.CreateBook(ctx, t, db, "Beloved")
	reader := testutils.CreateUser(ctx, t, db, "reader", models.RoleMember)
	bi := testutils.CreateCopy(ctx, t, db, book, nil, models.LoanStatusAvailable, nil)

	require.NoError(t, svc.UpdateStatus(ctx, bi.ID, models.LoanStatusOnLoan))
	require.NoError(t, svc.UpdateBorrower(ctx, bi.ID, &reader.ID))
	require.NoError(t, svc.UpdateDueDate(ctx, bi.ID, pointerutil.Time(testutils.Days(14))))

	stored, err := svc.RetrieveCopy(ctx, bi.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOnLoan, stored.Status)
	require.NotNil(t, stored.Borrower)
	assert.Equal(t, "reader", stored.Borrower.Username)
	assert.True(t, testutils.Days(14).Equal(*stored.DueBack))

	require.NoError(t, svc.UpdateDueDate(ctx, bi.ID, nil))
	require.NoError(t, svc.UpdateBorrower(ctx, bi.ID, nil))
	stored, err = svc.RetrieveCopy(ctx, bi.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DueBack)
	assert.Nil(t, stored.BorrowerID)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, "missing", models.LoanStatusOnLoan), errcodes.NotFound("Book instance"))

	require.NoError(t, svc.DeleteCopy(ctx, bi.ID))
	assert.ErrorIs(t, svc.DeleteCopy(ctx, bi.ID), errcodes.NotFound("Book instance"))
}

func TestNewResponse(t *testing.T) {
	t.Parallel()

	bi := &models.BookInstance{Status: models.LoanStatusOnLoan, DueBack: pointerutil.Time(testutils.Days(-1))}
	resp := NewResponse(bi, testutils.Today)
	assert.Equal(t, "On loan", resp.StatusLabel)
	assert.True(t, resp.IsOverdue)

	resp = NewResponse(bi, testutils.Days(-1))
	assert.False(t, resp.IsOverdue)
}

func idsOf(copies []*models.BookInstance) []string {
	ids := make([]string, len(copies))
	for i, bi := range copies {
		ids[i] = bi.ID
	}
	return ids
}
