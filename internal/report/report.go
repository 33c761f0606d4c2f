// Package report builds hierarchical time totals (project → tag) and
// day-by-day logs over a filtered, span-bounded frame set.
package report

import (
	"sort"
	"time"

	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/frame"
	"github.com/hpungsan/lapse/internal/store"
	"github.com/hpungsan/lapse/internal/timer"
)

// Options bound and filter the reported frames. Zero From/To means "all
// time". Current splices the running session into the report as a
// synthetic frame; nil defers to the report_current config option.
type Options struct {
	From           time.Time
	To             time.Time
	Projects       []string
	Tags           []string
	IgnoreProjects []string
	IgnoreTags     []string
	Current        *bool
	IncludePartial bool
}

// Report is the aggregation result. Times are seconds; durations are
// accumulated as exact time deltas and only converted here, at the output
// boundary.
type Report struct {
	Timespan Timespan        `json:"timespan"`
	Projects []ProjectReport `json:"projects"`
	Time     float64         `json:"time"`
}

// Timespan is the day-aligned interval the report covers.
type Timespan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ProjectReport totals one project's time, with per-tag sub-totals.
type ProjectReport struct {
	Name string      `json:"name"`
	Time float64     `json:"time"`
	Tags []TagReport `json:"tags"`
}

// TagReport totals one tag's time within a project.
type TagReport struct {
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

// Build aggregates the timer's frames into a report.
func Build(t *timer.Timer, opts Options) (*Report, error) {
	if err := validateFilters(opts); err != nil {
		return nil, err
	}

	from, to := opts.From, opts.To
	if from.IsZero() || to.IsZero() {
		earliest, latest := frameBounds(t)
		if from.IsZero() {
			from = earliest
		}
		if to.IsZero() {
			to = latest
		}
	}
	if from.After(to) {
		return nil, errors.NewInvalidInterval("'from' must be anterior to 'to'")
	}

	dayStart := t.Config().Options.DayStartHour
	span := frame.NewSpan(from, to, dayStart)

	frames := snapshot(t, opts).Filter(store.FilterOptions{
		Projects:       orNil(opts.Projects),
		Tags:           orNil(opts.Tags),
		IgnoreProjects: orNil(opts.IgnoreProjects),
		IgnoreTags:     orNil(opts.IgnoreTags),
		Span:           &span,
		IncludePartial: opts.IncludePartial,
	})

	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Project < frames[j].Project
	})

	rep := &Report{
		Timespan: Timespan{From: span.Start, To: span.Stop},
		Projects: []ProjectReport{},
	}

	var total time.Duration
	for start := 0; start < len(frames); {
		end := start
		for end < len(frames) && frames[end].Project == frames[start].Project {
			end++
		}
		group := frames[start:end]
		start = end

		var delta time.Duration
		for _, f := range group {
			delta += f.Duration()
		}
		total += delta

		pr := ProjectReport{
			Name: group[0].Project,
			Time: delta.Seconds(),
			Tags: []TagReport{},
		}

		for _, tag := range tagsToPrint(group, opts.Tags) {
			var tagDelta time.Duration
			for _, f := range group {
				if f.HasTag(tag) {
					tagDelta += f.Duration()
				}
			}
			pr.Tags = append(pr.Tags, TagReport{Name: tag, Time: tagDelta.Seconds()})
		}

		rep.Projects = append(rep.Projects, pr)
	}

	rep.Time = total.Seconds()
	return rep, nil
}

// Log is the day-by-day view: each day in the span with its frames, most
// recent day last.
type Log struct {
	Days []DayLog `json:"days"`
}

// DayLog is one day's frames and their combined duration in seconds.
type DayLog struct {
	Day    time.Time     `json:"day"`
	Time   float64       `json:"time"`
	Frames []frame.Frame `json:"frames"`
}

// BuildLog groups the filtered frames of [From, To] by calendar day.
func BuildLog(t *timer.Timer, opts Options) (*Log, error) {
	if err := validateFilters(opts); err != nil {
		return nil, err
	}

	from, to := opts.From, opts.To
	if from.IsZero() || to.IsZero() {
		earliest, latest := frameBounds(t)
		if from.IsZero() {
			from = earliest
		}
		if to.IsZero() {
			to = latest
		}
	}
	if from.After(to) {
		return nil, errors.NewInvalidInterval("'from' must be anterior to 'to'")
	}

	dayStart := t.Config().Options.DayStartHour
	span := frame.NewSpan(from, to, dayStart)

	frames := snapshot(t, opts).Filter(store.FilterOptions{
		Projects:       orNil(opts.Projects),
		Tags:           orNil(opts.Tags),
		IgnoreProjects: orNil(opts.IgnoreProjects),
		IgnoreTags:     orNil(opts.IgnoreTags),
		Span:           &span,
		IncludePartial: opts.IncludePartial,
	})

	log := &Log{Days: []DayLog{}}
	for _, group := range frame.ByDay(frames, dayStart) {
		var delta time.Duration
		for _, f := range group.Frames {
			delta += f.Duration()
		}
		log.Days = append(log.Days, DayLog{
			Day:    group.Day,
			Time:   delta.Seconds(),
			Frames: group.Frames,
		})
	}
	return log, nil
}

// Aggregate is one single-day report per day of the span, in order.
type Aggregate struct {
	Days []Report `json:"days"`
}

// BuildAggregate re-invokes the single-day report once per day of
// [From, To]. Days without frames yield an empty report so the output
// always covers the whole span.
func BuildAggregate(t *timer.Timer, opts Options) (*Aggregate, error) {
	if err := validateFilters(opts); err != nil {
		return nil, err
	}

	from, to := opts.From, opts.To
	if from.IsZero() || to.IsZero() {
		earliest, latest := frameBounds(t)
		if from.IsZero() {
			from = earliest
		}
		if to.IsZero() {
			to = latest
		}
	}
	if from.After(to) {
		return nil, errors.NewInvalidInterval("'from' must be anterior to 'to'")
	}

	span := frame.NewSpan(from, to, t.Config().Options.DayStartHour)

	agg := &Aggregate{Days: []Report{}}
	for _, day := range span.Days() {
		dayOpts := opts
		dayOpts.From = day
		dayOpts.To = day
		rep, err := Build(t, dayOpts)
		if err != nil {
			return nil, err
		}
		agg.Days = append(agg.Days, *rep)
	}
	return agg, nil
}

// CurrentFrameID marks the synthetic frame spliced in for the running
// session. It never reaches the live store.
const CurrentFrameID = "current"

// snapshot returns a throwaway store for aggregation: the live frames
// plus, when requested, the running session as a synthetic frame stopped
// at now.
func snapshot(t *timer.Timer, opts Options) *store.Frames {
	includeCurrent := t.Config().Options.ReportCurrent
	if opts.Current != nil {
		includeCurrent = *opts.Current
	}

	sess, running := t.Current()
	if !running || !includeCurrent {
		return store.New(t.Frames().All())
	}

	now := time.Now()
	synthetic := frame.Frame{
		ID:        CurrentFrameID,
		Project:   sess.Project,
		Start:     sess.Start,
		Stop:      now,
		Tags:      sess.Tags,
		UpdatedAt: now,
	}
	return store.New(append(t.Frames().All(), synthetic))
}

func validateFilters(opts Options) error {
	if intersects(opts.Projects, opts.IgnoreProjects) {
		return errors.NewConflictingFilters("projects")
	}
	if intersects(opts.Tags, opts.IgnoreTags) {
		return errors.NewConflictingFilters("tags")
	}
	return nil
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

// tagsToPrint returns the sorted tag set of the group, restricted to the
// explicitly requested tags when any were given.
func tagsToPrint(group []frame.Frame, requested []string) []string {
	want := make(map[string]struct{}, len(requested))
	for _, tag := range requested {
		want[tag] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, f := range group {
		for _, tag := range f.Tags {
			if len(want) > 0 {
				if _, ok := want[tag]; !ok {
					continue
				}
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// frameBounds returns the earliest start and latest stop across the
// store, falling back to now for an empty store.
func frameBounds(t *timer.Timer) (time.Time, time.Time) {
	frames := t.Frames().All()
	if len(frames) == 0 {
		now := time.Now()
		return now, now
	}
	earliest, latest := frames[0].Start, frames[0].Stop
	for _, f := range frames[1:] {
		if f.Start.Before(earliest) {
			earliest = f.Start
		}
		if f.Stop.After(latest) {
			latest = f.Stop
		}
	}
	return earliest, latest
}

func orNil(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return list
}
