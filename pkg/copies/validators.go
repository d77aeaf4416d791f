package copies

type ListCopiesQuery struct {
	BookID     *int    `query:"book_id" json:"book_id,omitempty" validate:"omitempty,min=1" tstype:"number"`
	BorrowerID *int    `query:"borrower_id" json:"borrower_id,omitempty" validate:"omitempty,min=1" tstype:"number"`
	Status     *string `query:"status" json:"status,omitempty" validate:"omitempty,loan_status" tstype:"LoanStatus"`
}

type CreateCopyPayload struct {
	BookID     *int   `json:"book_id,omitempty" validate:"omitempty,min=1"`
	Imprint    string `json:"imprint" mod:"trim" validate:"required,max=200"`
	DueBack    string `json:"due_back,omitempty" validate:"date"`
	BorrowerID *int   `json:"borrower_id,omitempty" validate:"omitempty,min=1"`
	Status     string `json:"status,omitempty" default:"m" validate:"loan_status"`
}

// UpdateCopyPayload only touches the fields that are present. An empty
// due_back clears the date and a borrower_id of 0 clears the borrower.
type UpdateCopyPayload struct {
	BookID     *int    `json:"book_id,omitempty" validate:"omitempty,min=1"`
	Imprint    *string `json:"imprint,omitempty" mod:"trim" validate:"omitempty,min=1,max=200"`
	DueBack    *string `json:"due_back,omitempty" validate:"omitempty,date"`
	BorrowerID *int    `json:"borrower_id,omitempty" validate:"omitempty,min=0"`
	Status     *string `json:"status,omitempty" validate:"omitempty,loan_status"`
}
