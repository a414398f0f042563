package calendar

import (
	"fmt"
	"time"

	"github.com/agis/tzcal/internal/timeparse"
)

// SetTimeZone moves the calendar to loc. Every event keeps the instant it
// represented; its wall-clock start and end are re-read in loc. If any series
// member would then span two dates the calendar is left untouched and
// ErrMultiDaySeries is returned.
func (c *Calendar) SetTimeZone(loc *time.Location) error {
	if loc == nil {
		return fmt.Errorf("%w: time zone is required", ErrValidation)
	}
	all := c.store.All()
	removes := make([]Key, 0, len(all))
	inserts := make([]Event, 0, len(all))
	for _, e := range all {
		next := e.WithSpan(
			WallClock(Instant(e.Start, c.loc), loc),
			WallClock(Instant(e.End, c.loc), loc),
		)
		if next.InSeries() && !timeparse.SameDate(next.Start, next.End) {
			return fmt.Errorf("%w: %s would become %s", ErrMultiDaySeries, e, next)
		}
		removes = append(removes, e.Key())
		inserts = append(inserts, next)
	}
	if err := c.store.Commit(removes, inserts); err != nil {
		return err
	}
	c.loc = loc
	return nil
}
