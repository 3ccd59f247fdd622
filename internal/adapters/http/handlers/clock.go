package handlers

import (
	"time"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
)

// calendar resolves the date key of "today" in the service's zone.
type calendar struct {
	loc *time.Location
	now func() time.Time
}

func newCalendar(loc *time.Location, now func() time.Time) calendar {
	if loc == nil {
		loc = time.UTC
	}

	if now == nil {
		now = time.Now
	}

	return calendar{loc: loc, now: now}
}

// dateOrToday returns date, or today's key when date is empty.
func (c calendar) dateOrToday(date string) string {
	if date != "" {
		return date
	}

	return domain.DateKey(c.now(), c.loc)
}
