package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const displayGenreLimit = 3

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b" tstype:"-"`

	ID         int             `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Title      string          `bun:",nullzero" json:"title"`
	AuthorID   *int            `json:"author_id"`
	Author     *Author         `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty" tstype:"Author"`
	Summary    string          `bun:",notnull" json:"summary"`
	ISBN       string          `bun:"isbn,notnull" json:"isbn"`
	LanguageID *int            `json:"language_id"`
	Language   *Language       `bun:"rel:belongs-to,join:language_id=id" json:"language,omitempty" tstype:"Language"`
	BookGenres []*BookGenre    `bun:"rel:has-many,join:id=book_id" json:"genres,omitempty" tstype:"BookGenre[]"`
	Instances  []*BookInstance `bun:"rel:has-many,join:id=book_id" json:"instances,omitempty" tstype:"BookInstance[]"`
}

// DisplayGenre joins the names of the first three genres. BookGenres and
// their Genre relation must be loaded.
func (b *Book) DisplayGenre() string {
	names := []string{}
	for _, bg := range b.BookGenres {
		if len(names) == displayGenreLimit {
			break
		}
		if bg.Genre != nil {
			names = append(names, bg.Genre.Name)
		}
	}
	return strings.Join(names, ", ")
}
