package schedule

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

	_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return ValidDay(fl.Field().String())
	})
	core.RegisterCustomTranslation(
		validate, translator, "weekday",
		fmt.Sprintf("must be one of: %s", strings.Join(AllDays, ", ")),
	)
}
