package user

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/hadir/core"
)

const (
	pwdMinLength     = 8
	pwdMaxSimilarity = 0.7
)

var validate *validator.Validate

// InitValidators registers user-specific validation tags and translations on
// the app's validator instance. It must be called once at startup.
func InitValidators(v *validator.Validate, translator ut.Translator) {
	validate = v

	_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return ValidRole(fl.Field().String())
	})
	core.RegisterCustomTranslation(
		validate, translator, "role",
		fmt.Sprintf("must be one of: %s", strings.Join(AllRoles, ", ")),
	)
}

// ValidatePassword enforces the password policy: a minimum length, not purely
// numeric, no leading/trailing whitespace and not too similar to the user's
// own attributes (name, username, email).
func ValidatePassword(pwd string, userAttrs ...string) error {
	var fieldErrs []core.FieldError
	fieldErr := func(msg string) {
		fieldErrs = append(fieldErrs, core.FieldError{Field: "password", Error: msg})
	}

	if strings.TrimSpace(pwd) != pwd {
		fieldErr("password cannot start or end with a space")
	}
	if len(pwd) < pwdMinLength {
		fieldErr(fmt.Sprintf("password must contain at least %d characters", pwdMinLength))
	}
	if isAllNumeric(pwd) {
		fieldErr("password cannot be entirely numeric")
	}
	if attr, ok := tooSimilar(pwd, userAttrs); ok {
		fieldErr(fmt.Sprintf("password is too similar to %q", attr))
	}

	if len(fieldErrs) > 0 {
		return core.NewValidationError(nil, fieldErrs...)
	}
	return nil
}

func isAllNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilar(pwd string, attrs []string) (string, bool) {
	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		sm := difflib.NewMatcher(strings.Split(lpwd, ""), strings.Split(strings.ToLower(attr), ""))
		if sm.Ratio() >= pwdMaxSimilarity {
			return attr, true
		}
	}
	return "", false
}
