package booking

import (
	"fmt"
	"time"

	"cupbot/models"
)

const (
	// DaysOffered is how many calendar days, starting tomorrow, are offered.
	DaysOffered = 7

	dateValueLayout   = "2006-01-02"
	dateLabelLayout   = "Mon, Jan 2"
	timeValueLayout   = "15:04"
	timeLabelLayout   = "3:04 PM"
	confirmDateLayout = "January 2, 2006"
)

// Option is a selectable button: what the user sees and what comes back.
type Option struct {
	Label string
	Value string
}

// DateOptions lists n days starting the day after now, in now's location.
func DateOptions(now time.Time, n int) []Option {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	opts := make([]Option, 0, n)
	for i := 1; i <= n; i++ {
		day := today.AddDate(0, 0, i)
		opts = append(opts, Option{Label: day.Format(dateLabelLayout), Value: day.Format(dateValueLayout)})
	}
	return opts
}

// TimeSlots returns hourly slots starting at open, each starting strictly
// before close. A closed day has none.
func TimeSlots(h models.WorkingHours) ([]Option, error) {
	if !h.IsOpen {
		return nil, nil
	}
	open, err := time.Parse(timeValueLayout, h.Open)
	if err != nil {
		return nil, fmt.Errorf("invalid opening time %q: %w", h.Open, err)
	}
	closing, err := time.Parse(timeValueLayout, h.Close)
	if err != nil {
		return nil, fmt.Errorf("invalid closing time %q: %w", h.Close, err)
	}

	var slots []Option
	for t := open; t.Before(closing); t = t.Add(time.Hour) {
		slots = append(slots, Option{Label: t.Format(timeLabelLayout), Value: t.Format(timeValueLayout)})
	}
	return slots, nil
}

// At combines a yyyy-MM-dd date and an HH:mm time in loc.
func At(date, hhmm string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateValueLayout+" "+timeValueLayout, date+" "+hhmm, loc)
}
