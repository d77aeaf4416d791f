package authors

type CreateAuthorPayload struct {
	FirstName   string `json:"first_name" form:"first_name" mod:"trim" validate:"required,max=100"`
	LastName    string `json:"last_name" form:"last_name" mod:"trim" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth" mod:"trim" validate:"omitempty,date"`
	DateOfDeath string `json:"date_of_death" form:"date_of_death" mod:"trim" validate:"omitempty,date"`
}

// UpdateAuthorPayload only touches the fields that are present. An empty
// date string clears the date.
type UpdateAuthorPayload struct {
	FirstName   *string `json:"first_name,omitempty" form:"first_name" mod:"trim" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" form:"last_name" mod:"trim" validate:"omitempty,max=100"`
	DateOfBirth *string `json:"date_of_birth,omitempty" form:"date_of_birth" mod:"trim" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death,omitempty" form:"date_of_death" mod:"trim" validate:"omitempty,date"`
}
