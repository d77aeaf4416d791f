package languages

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

type UpdateLanguageOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateLanguage(ctx context.Context, language *models.Language) error {
	now := time.Now()
	if language.CreatedAt.IsZero() {
		language.CreatedAt = now
	}
	language.UpdatedAt = language.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(language).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveLanguage(ctx context.Context, id int) (*models.Language, error) {
	language := &models.Language{}

	err := svc.db.
		NewSelect().
		Model(language).
		Where("l.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Language")
		}
		return nil, errors.WithStack(err)
	}

	return language, nil
}

func (svc *Service) ListLanguages(ctx context.Context) ([]*models.Language, error) {
	languages := []*models.Language{}

	err := svc.db.
		NewSelect().
		Model(&languages).
		Order("l.name ASC", "l.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return languages, nil
}

func (svc *Service) UpdateLanguage(ctx context.Context, language *models.Language, opts UpdateLanguageOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	language.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(language).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Language")
	}
	return nil
}

// DeleteLanguage deletes a language. Books written in it keep existing with
// no language.
func (svc *Service) DeleteLanguage(ctx context.Context, id int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("language_id = NULL").
			Where("language_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Language)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return errcodes.NotFound("Language")
		}
		return nil
	})
}
