package binder

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shishobooks/circulation/pkg/models"
)

var dateRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

// dateValidator accepts YYYY-MM-DD calendar dates or the empty string. The
// empty string is how a payload clears a date, so pair it with `required` when
// a value must be present.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if !dateRE.MatchString(value) {
		return false
	}
	_, err := time.Parse(models.DateLayout, value)
	return err == nil
}

// loanStatusValidator accepts one of the single-letter BookInstance status
// codes.
func loanStatusValidator(fl validator.FieldLevel) bool {
	return models.LoanStatus(fl.Field().String()).Valid()
}
