// Package home serves the landing summary: catalog counts and the visit
// counter.
package home

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/books"
	"github.com/shishobooks/circulation/pkg/copies"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

type Summary struct {
	NumBooks              int   `json:"num_books"`
	NumInstances          int   `json:"num_instances"`
	NumInstancesAvailable int   `json:"num_instances_available"`
	NumAuthors            int   `json:"num_authors"`
	NumGenres             int   `json:"num_genres"`
	NumVisits             int64 `json:"num_visits"`
}

type Service struct {
	db          *bun.DB
	bookService *books.Service
	copyService *copies.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:          db,
		bookService: books.NewService(db),
		copyService: copies.NewService(db),
	}
}

// Summarize counts the catalog. NumVisits is left for the caller to fill in.
func (svc *Service) Summarize(ctx context.Context) (*Summary, error) {
	var err error
	summary := &Summary{}

	if summary.NumBooks, err = svc.bookService.CountBooks(ctx); err != nil {
		return nil, err
	}
	if summary.NumInstances, err = svc.copyService.CountCopies(ctx, copies.ListCopiesOptions{}); err != nil {
		return nil, err
	}
	available := models.LoanStatusAvailable
	if summary.NumInstancesAvailable, err = svc.copyService.CountCopies(ctx, copies.ListCopiesOptions{Status: &available}); err != nil {
		return nil, err
	}
	if summary.NumAuthors, err = svc.db.NewSelect().Model((*models.Author)(nil)).Count(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	if summary.NumGenres, err = svc.db.NewSelect().Model((*models.Genre)(nil)).Count(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return summary, nil
}
