package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CodeTanzania/emis-feature/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation over a request DTO and
// converts the first failure into the domain error taxonomy.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if ok := errors.As(err, &verrs); ok && len(verrs) > 0 {
		field := strings.ToLower(verrs[0].Field())
		if verrs[0].Tag() == "required" {
			return apperror.MissingRequiredField(field)
		}
		return fmt.Errorf("%w: field %s failed %s", apperror.ErrValidation, field, verrs[0].Tag())
	}
	return err
}
