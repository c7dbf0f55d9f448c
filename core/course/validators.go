package course

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hadir/core"
)

var validate *validator.Validate

func InitValidators(v *validator.Validate, translator ut.Translator) {
	validate = v

	_ = validate.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		return ValidSemester(fl.Field().String())
	})
	core.RegisterCustomTranslation(
		validate, translator, "semester",
		fmt.Sprintf("must be one of: %s", strings.Join(AllSemesters, ", ")),
	)
}
