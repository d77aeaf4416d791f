package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Language is the natural language a book is written in.
type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l" tstype:"-"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
}
