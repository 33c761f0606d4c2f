package frame

import (
	"sort"
	"time"
)

// Span is a day-aligned closed interval [Start, Stop] used to bound report
// and log queries. The day boundary may be shifted by a configured start
// hour so that late-night work counts toward the previous day.
type Span struct {
	Start        time.Time
	Stop         time.Time
	DayStartHour int
}

// NewSpan floors from to the start of its (shifted) day and ceils to to
// the end of its (shifted) day.
func NewSpan(from, to time.Time, dayStartHour int) Span {
	return Span{
		Start:        floorDay(from, dayStartHour),
		Stop:         ceilDay(to, dayStartHour),
		DayStartHour: dayStartHour,
	}
}

// Contains reports whether the frame lies fully inside the span.
func (s Span) Contains(f Frame) bool {
	return !f.Start.Before(s.Start) && !f.Stop.After(s.Stop)
}

// Overlaps reports whether the frame intersects the span at all.
func (s Span) Overlaps(f Frame) bool {
	return !f.Start.After(s.Stop) && !f.Stop.Before(s.Start)
}

// Crop clips the frame to the span boundaries. Only meaningful for frames
// that overlap the span.
func (s Span) Crop(f Frame) Frame {
	out := f
	if f.Start.Before(s.Start) {
		out.Start = s.Start
	}
	if f.Stop.After(s.Stop) {
		out.Stop = s.Stop
	}
	return out
}

// Days returns the (shifted) start of every day in the span, in order.
func (s Span) Days() []time.Time {
	var days []time.Time
	for day := s.Start; !day.After(s.Stop); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// ByDay groups frames by the calendar day of their start, sorted by start
// within and across groups.
func ByDay(frames []Frame, dayStartHour int) []DayGroup {
	sorted := make([]Frame, len(frames))
	copy(sorted, frames)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var groups []DayGroup
	for _, f := range sorted {
		day := f.Day(dayStartHour)
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Frames = append(groups[n-1].Frames, f)
			continue
		}
		groups = append(groups, DayGroup{Day: day, Frames: []Frame{f}})
	}
	return groups
}

// DayGroup is one calendar day's worth of frames.
type DayGroup struct {
	Day    time.Time
	Frames []Frame
}

// floorDay returns the start of t's day, with the day boundary shifted
// forward by dayStartHour hours.
func floorDay(t time.Time, dayStartHour int) time.Time {
	shift := time.Duration(dayStartHour) * time.Hour
	s := t.Add(-shift)
	day := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
	return day.Add(shift)
}

// ceilDay returns the last representable second of t's (shifted) day.
// Persisted instants have second resolution, so one second under the next
// day boundary is exact.
func ceilDay(t time.Time, dayStartHour int) time.Time {
	return floorDay(t, dayStartHour).AddDate(0, 0, 1).Add(-time.Second)
}
