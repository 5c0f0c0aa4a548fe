package options

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutMonth      = "2006-1"
	layoutMonthShort = "1"
)

// MonthOptions selects a calendar month.
type MonthOptions struct {
	MonthString string
	Calendar    bool
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().BoolVar(&o.Calendar, "calendar", false,
		`Show a calendar of the days tickets were submitted.`)
	cmd.Flags().StringVar(&o.MonthString, "month", "",
		`Calendar month, example: --month="2025-3" or --month="3". Implies --calendar.`)
}

// GetMonth returns the selected month, the current one for a bare
// --calendar, or nil when no calendar was asked for.
func (o *MonthOptions) GetMonth(now time.Time) (*time.Time, error) {
	if o.MonthString == "" {
		if !o.Calendar {
			return nil, nil
		}
		return &now, nil
	}
	t, err := time.ParseInLocation(layoutMonth, o.MonthString, time.Local)
	if err != nil {
		// Let the year be the same.
		t, err = time.ParseInLocation(layoutMonthShort, o.MonthString, time.Local)
		if err != nil {
			return nil, err
		}
		t = t.AddDate(now.Year(), 0, 0)
	}
	return &t, nil
}
