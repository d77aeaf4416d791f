// Package testutils holds fixtures shared by package tests: a migrated
// in-memory database and helpers that insert catalog and circulation rows
// directly, without going through the services under test.
package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shishobooks/circulation/pkg/config"
	"github.com/shishobooks/circulation/pkg/database"
	"github.com/shishobooks/circulation/pkg/migrations"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// Today is the fixed "today" used by circulation tests.
var Today = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

// Days returns Today shifted by n days.
func Days(n int) time.Time {
	return Today.AddDate(0, 0, n)
}

// NewDB returns a migrated in-memory database that is closed when the test
// ends.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreateUser inserts an active user holding the named role and returns it
// with Role.Permissions loaded.
func CreateUser(ctx context.Context, t *testing.T, db *bun.DB, username, roleName string) *models.User {
	t.Helper()

	role := new(models.Role)
	err := db.NewSelect().
		Model(role).
		Where("name = ?", roleName).
		Scan(ctx)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	loaded := new(models.User)
	err = db.NewSelect().
		Model(loaded).
		Relation("Role").
		Relation("Role.Permissions").
		Where("u.id = ?", user.ID).
		Scan(ctx)
	require.NoError(t, err)

	return loaded
}

// CreateBook inserts a book with the given title and no relations.
func CreateBook(ctx context.Context, t *testing.T, db *bun.DB, title string) *models.Book {
	t.Helper()

	book := &models.Book{
		Title:   title,
		Summary: "My book summary",
		ISBN:    "ABCDEFG",
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	return book
}

// CreateCopy inserts a copy of book. borrower may be nil.
func CreateCopy(ctx context.Context, t *testing.T, db *bun.DB, book *models.Book, borrower *models.User, status models.LoanStatus, dueBack *time.Time) *models.BookInstance {
	t.Helper()

	bi := &models.BookInstance{
		ID:      uuid.NewString(),
		Imprint: "Unlikely Imprint, 2016",
		DueBack: dueBack,
		Status:  status,
	}
	if book != nil {
		bi.BookID = &book.ID
	}
	if borrower != nil {
		bi.BorrowerID = &borrower.ID
	}
	_, err := db.NewInsert().Model(bi).Exec(ctx)
	require.NoError(t, err)

	return bi
}
