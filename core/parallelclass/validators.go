package parallelclass

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// InitValidators wires the shared validator in. The "semester" tag is
// registered by the course package on the same instance.
func InitValidators(v *validator.Validate, _ ut.Translator) {
	validate = v
}
