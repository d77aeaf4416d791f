package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

// Matches the default copy ordering in pkg/copies.
const instanceOrder = "bi.due_back IS NOT NULL, bi.due_back ASC, bi.id ASC"

type CreateBookOptions struct {
	GenreIDs []int
}

type UpdateBookOptions struct {
	Columns []string
	// GenreIDs replaces the book's genres when non-nil.
	GenreIDs *[]int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book, opts CreateBookOptions) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, book); err != nil {
			return err
		}

		now := time.Now()
		if book.CreatedAt.IsZero() {
			book.CreatedAt = now
		}
		book.UpdatedAt = book.CreatedAt

		_, err := tx.NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return setGenres(ctx, tx, book.ID, opts.GenreIDs)
	})
}

// RetrieveBook loads a book with its author, language, genres and copies.
func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}

	err := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("Language").
		Relation("BookGenres", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre").
		Relation("Instances", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr(instanceOrder)
		}).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// ListBooks orders by title.
func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Relation("BookGenres", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre").
		Order("b.title ASC", "b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && opts.GenreIDs == nil {
		return nil
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, book); err != nil {
			return err
		}

		book.UpdatedAt = time.Now()
		columns := append(opts.Columns, "updated_at")

		res, err := tx.NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}

		if opts.GenreIDs == nil {
			return nil
		}
		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", book.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return setGenres(ctx, tx, book.ID, *opts.GenreIDs)
	})
}

// DeleteBook removes a book and its genre links. Its copies are kept with no
// book.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.BookInstance)(nil)).
			Set("book_id = NULL").
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.BookGenre)(nil)).
			Where("book_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Book")
		}
		return nil
	})
}

func checkReferences(ctx context.Context, tx bun.Tx, book *models.Book) error {
	if book.AuthorID != nil {
		exists, err := tx.NewSelect().
			Model((*models.Author)(nil)).
			Where("id = ?", *book.AuthorID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Author")
		}
	}
	if book.LanguageID != nil {
		exists, err := tx.NewSelect().
			Model((*models.Language)(nil)).
			Where("id = ?", *book.LanguageID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Language")
		}
	}
	return nil
}

func setGenres(ctx context.Context, tx bun.Tx, bookID int, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}

	seen := map[int]bool{}
	links := []*models.BookGenre{}
	for _, id := range genreIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, &models.BookGenre{BookID: bookID, GenreID: id})
	}

	count, err := tx.NewSelect().
		Model((*models.Genre)(nil)).
		Where("id IN (?)", bun.In(genreIDs)).
		Count(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if count != len(links) {
		return errcodes.NotFound("Genre")
	}

	_, err = tx.NewInsert().Model(&links).Exec(ctx)
	return errors.WithStack(err)
}
