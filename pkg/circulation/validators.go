package circulation

type RenewPayload struct {
	RenewalDate string `json:"renewal_date" form:"renewal_date" mod:"trim" validate:"required,date"`
}

type ChangeStatusPayload struct {
	Status string `json:"status" form:"status" mod:"trim" validate:"required,loan_status"`
}
