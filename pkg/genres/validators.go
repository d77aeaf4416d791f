package genres

type CreateGenrePayload struct {
	Name string `json:"name" form:"name" mod:"trim" validate:"required,max=200"`
}

type UpdateGenrePayload struct {
	Name *string `json:"name,omitempty" form:"name" mod:"trim" validate:"omitempty,max=200"`
}
