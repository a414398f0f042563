package app

import (
	"sort"

	"github.com/agis/tzcal/internal/calendar"
	"github.com/agis/tzcal/internal/timeparse"
)

type busyBlock struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Minutes int64  `json:"minutes"`
}

// buildBusyBlocks merges overlapping or touching events into busy intervals.
func buildBusyBlocks(items []calendar.Event, includeAllDay bool) []busyBlock {
	ranges := make([]calendar.Event, 0, len(items))
	for _, it := range items {
		if !includeAllDay && it.AllDay {
			continue
		}
		if !it.Start.Before(it.End) {
			continue
		}
		ranges = append(ranges, it)
	}
	if len(ranges) == 0 {
		return []busyBlock{}
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start.Equal(ranges[j].Start) {
			return ranges[i].End.Before(ranges[j].End)
		}
		return ranges[i].Start.Before(ranges[j].Start)
	})
	merged := make([]busyBlock, 0, len(ranges))
	curStart := ranges[0].Start
	curEnd := ranges[0].End
	flush := func() {
		merged = append(merged, busyBlock{
			Start:   timeparse.FormatDateTime(curStart),
			End:     timeparse.FormatDateTime(curEnd),
			Minutes: int64(curEnd.Sub(curStart).Minutes()),
		})
	}
	for i := 1; i < len(ranges); i++ {
		if !ranges[i].Start.After(curEnd) {
			if ranges[i].End.After(curEnd) {
				curEnd = ranges[i].End
			}
			continue
		}
		flush()
		curStart = ranges[i].Start
		curEnd = ranges[i].End
	}
	flush()
	return merged
}
