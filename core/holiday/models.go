package holiday

import (
	"time"

	"github.com/trezcool/hadir/core"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

type Holiday struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewHoliday contains information needed to create a new Holiday.
type NewHoliday struct {
	Date        string `json:"date" validate:"required,dateonly"`
	Description string `json:"description" validate:"required"`
}

func (nh *NewHoliday) Validate() error {
	nh.Date = core.CleanString(nh.Date)
	nh.Description = core.CleanString(nh.Description)
	return validate.Struct(nh)
}

// UpdateHoliday defines what information may be provided to modify an existing Holiday.
type UpdateHoliday struct {
	Date        string `json:"date" validate:"omitempty,dateonly"`
	Description string `json:"description"`
}

func (uh *UpdateHoliday) Validate() error {
	uh.Date = core.CleanString(uh.Date)
	uh.Description = core.CleanString(uh.Description)
	return validate.Struct(uh)
}
