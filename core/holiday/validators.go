package holiday

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hadir/core"
)

var validate *validator.Validate

func InitValidators(v *validator.Validate, translator ut.Translator) {
	validate = v

	_ = validate.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateFormat, fl.Field().String())
		return err == nil
	})
	core.RegisterCustomTranslation(validate, translator, "dateonly", "must be a valid date (YYYY-MM-DD)")
}
