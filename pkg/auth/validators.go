package auth

type LoginPayload struct {
	Username string `json:"username" form:"username" mod:"trim" validate:"required,max=50"`
	Password string `json:"password" form:"password" validate:"required"`
}

type SetupPayload struct {
	Username string `json:"username" mod:"trim" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type StatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}

type MeResponse struct {
	ID           int      `json:"id"`
	Username     string   `json:"username"`
	RoleID       int      `json:"role_id"`
	RoleName     string   `json:"role_name"`
	Capabilities []string `json:"capabilities"`
}
