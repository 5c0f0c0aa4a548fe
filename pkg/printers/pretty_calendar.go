package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/helpdesk/pkg/ticket"
)

// Calendar prints the month containing on, highlighting the days tickets
// were submitted.
func (pp *PrettyPrint) Calendar(on time.Time, tickets ...*ticket.Ticket) {
	then := time.Date(on.Year(), on.Month(), 1, 1, 0, 0, 0, time.Local)
	pp.PrintMonth(then, tickets...)
}

const width = len("11 12 13 14 15 16 17") // an example week

// PrintMonth counts tickets created per day of the month of then.
func (pp *PrettyPrint) PrintMonth(then time.Time, tickets ...*ticket.Ticket) {
	pp.PrintMonthCount(then, CountByDay(then, tickets...))
}

// CountByDay returns, for each day of the month of then, how many tickets
// were created on it in local time.
func CountByDay(then time.Time, tickets ...*ticket.Ticket) []int {
	count := make([]int, DaysIn(then))
	for _, t := range tickets {
		created := t.CreatedAt.Local()
		if created.Year() == then.Year() && created.Month() == then.Month() {
			count[created.Day()-1]++
		}
	}
	return count
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	out := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(out, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	total := 0
	for i := 0; i < DaysIn(then); i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(out, "%2d ", i+1)
			total += count[i]
		} else {
			_, _ = l1.Fprintf(out, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	_, _ = fmt.Fprint(out, "\n\n")
	_, _ = color.New(color.Faint).Fprintf(out, "%d submitted in %s\n\n", total, m)
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
