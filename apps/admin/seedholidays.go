package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/holiday"
)

// fixed-date Indonesian national holidays. Movable religious holidays
// (Eid, Nyepi, Waisak, ...) shift every year and must be added by hand.
var nationalHolidays = []struct {
	month time.Month
	day   int
	desc  string
}{
	{time.January, 1, "Tahun Baru Masehi"},
	{time.May, 1, "Hari Buruh Internasional"},
	{time.June, 1, "Hari Lahir Pancasila"},
	{time.August, 17, "Hari Kemerdekaan Republik Indonesia"},
	{time.December, 25, "Hari Raya Natal"},
}

func (cli *commandLine) seedHolidays(year int) error {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, nh := range nationalHolidays {
		hol := holiday.Holiday{
			Date:        time.Date(year, nh.month, nh.day, 0, 0, 0, 0, time.UTC),
			Description: nh.desc,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := cli.holRepo.CreateHoliday(ctx, hol); err != nil {
			if errors.Cause(err) == holiday.ErrDateExists {
				logger.Printf("skipping %s: already exists", hol.Date.Format(holiday.DateFormat))
				continue
			}
			return errors.Wrapf(err, "seeding %s", hol.Date.Format(holiday.DateFormat))
		}
		logger.Printf("added %s: %s", hol.Date.Format(holiday.DateFormat), hol.Description)
	}
	return nil
}
