package languages

type LanguagePayload struct {
	Name string `json:"name" form:"name" mod:"trim" validate:"required,max=200"`
}
