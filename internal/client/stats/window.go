package stats

import (
	"fmt"
	"time"

	"github.com/wealflow/wealflow/internal/client/models"
)

type Period string

const (
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
	PeriodAll    Period = "all"
)

// Window is an inclusive date range. The zero Window matches everything.
type Window struct {
	Period Period
	Start  models.Date
	End    models.Date
}

func (w Window) Contains(d models.Date) bool {
	if w.Period == PeriodAll {
		return true
	}
	if !w.Start.IsZero() && d.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && d.After(w.End) {
		return false
	}
	return true
}

func (w Window) String() string {
	if w.Period == PeriodAll || (w.Start.IsZero() && w.End.IsZero()) {
		return "all time"
	}
	return fmt.Sprintf("%s .. %s", w.Start, w.End)
}

// All matches every transaction.
func All() Window { return Window{Period: PeriodAll} }

// Week covers today and the six days before it.
func Week(now time.Time) Window {
	today := models.NewDate(now)
	return Window{Period: PeriodWeek, Start: models.NewDate(today.Time().AddDate(0, 0, -6)), End: today}
}

// Month covers the calendar month containing now.
func Month(now time.Time) Window {
	start, end := monthBounds(now)
	return Window{Period: PeriodMonth, Start: start, End: end}
}

// Year covers the calendar year containing now.
func Year(now time.Time) Window {
	y := now.Year()
	return Window{
		Period: PeriodYear,
		Start:  models.NewDate(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)),
		End:    models.NewDate(time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
}

// Custom uses the given bounds; a missing bound falls back to the edge of
// the current month.
func Custom(start, end models.Date, now time.Time) Window {
	ms, me := monthBounds(now)
	if start.IsZero() {
		start = ms
	}
	if end.IsZero() {
		end = me
	}
	return Window{Period: PeriodCustom, Start: start, End: end}
}

// ParsePeriod builds a window from a period name as typed in the CLI.
func ParsePeriod(p string, now time.Time) (Window, error) {
	switch Period(p) {
	case PeriodWeek:
		return Week(now), nil
	case PeriodMonth, "":
		return Month(now), nil
	case PeriodYear:
		return Year(now), nil
	case PeriodAll:
		return All(), nil
	}
	return Window{}, fmt.Errorf("unknown period %q", p)
}

func Filter(txs []models.Transaction, w Window) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if w.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

func monthBounds(now time.Time) (models.Date, models.Date) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return models.NewDate(first), models.NewDate(first.AddDate(0, 1, -1))
}
