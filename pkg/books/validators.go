package books

type CreateBookPayload struct {
	Title      string `json:"title" form:"title" mod:"trim" validate:"required,max=200"`
	AuthorID   *int   `json:"author_id,omitempty" form:"author_id" validate:"omitempty,min=1"`
	Summary    string `json:"summary" form:"summary" mod:"trim" validate:"max=1000"`
	ISBN       string `json:"isbn" form:"isbn" mod:"trim" validate:"max=13"`
	LanguageID *int   `json:"language_id,omitempty" form:"language_id" validate:"omitempty,min=1"`
	GenreIDs   []int  `json:"genre_ids,omitempty" form:"genre_ids" validate:"dive,min=1"`
}

// UpdateBookPayload only touches the fields that are present. An author_id or
// language_id of 0 clears the reference, and genre_ids replaces every genre.
type UpdateBookPayload struct {
	Title      *string `json:"title,omitempty" form:"title" mod:"trim" validate:"omitempty,min=1,max=200"`
	AuthorID   *int    `json:"author_id,omitempty" form:"author_id" validate:"omitempty,min=0"`
	Summary    *string `json:"summary,omitempty" form:"summary" mod:"trim" validate:"omitempty,max=1000"`
	ISBN       *string `json:"isbn,omitempty" form:"isbn" mod:"trim" validate:"omitempty,max=13"`
	LanguageID *int    `json:"language_id,omitempty" form:"language_id" validate:"omitempty,min=0"`
	GenreIDs   *[]int  `json:"genre_ids,omitempty" form:"genre_ids" validate:"omitempty,dive,min=1"`
}
