package attendance

import "github.com/pkg/errors"

// Violation codes, stable across the API.
const (
	CodeForbiddenRole       = "FORBIDDEN_ROLE"
	CodeHoliday             = "HOLIDAY"
	CodeNotActiveEnrollment = "NOT_ACTIVE_ENROLLMENT"
	CodeAlreadyPresent      = "ALREADY_PRESENT"
	CodeNoScheduleToday     = "NO_SCHEDULE_TODAY"
	CodeOutOfTimeWindow     = "OUT_OF_TIME_WINDOW"
	CodeProofRequired       = "PROOF_REQUIRED"
	CodeServerError         = "SERVER_ERROR"
)

// RuleViolation is a rejected submission. The engine checks rules in a fixed
// order and stops at the first violated one.
type RuleViolation struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (v *RuleViolation) Error() string { return v.Detail }

func NewRuleViolation(code, detail string) *RuleViolation {
	return &RuleViolation{Code: code, Detail: detail}
}

// AsRuleViolation unwraps err into a RuleViolation if it is one.
func AsRuleViolation(err error) (*RuleViolation, bool) {
	v, ok := errors.Cause(err).(*RuleViolation)
	return v, ok
}
