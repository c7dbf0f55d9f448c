package enrollment

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

	_ = validate.RegisterValidation("enrollmentstatus", func(fl validator.FieldLevel) bool {
		return ValidStatus(fl.Field().String())
	})
	core.RegisterCustomTranslation(
		validate, translator, "enrollmentstatus",
		fmt.Sprintf("must be one of: %s", strings.Join(AllStatuses, ", ")),
	)
}
