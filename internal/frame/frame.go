// Package frame defines the immutable time-interval record at the heart of
// lapse, together with the day-aligned spans used to bound queries.
package frame

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hpungsan/lapse/internal/errors"
)

// Frame is one completed time interval attributed to a project. Frames are
// value types: once constructed they are never mutated, only replaced.
type Frame struct {
	ID        string
	Project   string
	Start     time.Time
	Stop      time.Time
	Tags      []string
	UpdatedAt time.Time
}

// New constructs a validated Frame. A fresh id is generated when id is
// empty, updatedAt defaults to now, and tags are deduplicated preserving
// their first occurrence.
func New(project string, start, stop time.Time, tags []string, id string, updatedAt time.Time) (Frame, error) {
	if strings.TrimSpace(project) == "" {
		return Frame{}, errors.NewNoProjectGiven()
	}
	if stop.Before(start) {
		return Frame{}, errors.NewInvalidInterval("task cannot end before it starts")
	}
	if id == "" {
		id = NewID()
	}
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	return Frame{
		ID:        id,
		Project:   project,
		Start:     start,
		Stop:      stop,
		Tags:      Deduplicate(tags),
		UpdatedAt: updatedAt,
	}, nil
}

// NewID returns a fresh frame id: the 32-char lowercase hex form of a
// random UUID.
func NewID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// Replace returns a copy of f with the non-zero fields of o applied.
// Tags are replaced wholesale when non-nil.
func (f Frame) Replace(o Override) Frame {
	out := f
	if o.Project != "" {
		out.Project = o.Project
	}
	if !o.Start.IsZero() {
		out.Start = o.Start
	}
	if !o.Stop.IsZero() {
		out.Stop = o.Stop
	}
	if o.Tags != nil {
		out.Tags = Deduplicate(o.Tags)
	}
	if !o.UpdatedAt.IsZero() {
		out.UpdatedAt = o.UpdatedAt
	}
	return out
}

// Override carries replacement fields for Frame.Replace. Zero-valued
// fields are left untouched; Tags is all-or-nothing.
type Override struct {
	Project   string
	Start     time.Time
	Stop      time.Time
	Tags      []string
	UpdatedAt time.Time
}

// Duration returns the length of the frame's interval.
func (f Frame) Duration() time.Duration {
	return f.Stop.Sub(f.Start)
}

// Day returns the (shifted) start of the calendar day the frame belongs
// to, in the frame's local zone.
func (f Frame) Day(dayStartHour int) time.Time {
	return floorDay(f.Start, dayStartHour)
}

// HasTag reports whether tag appears in the frame's tag list.
func (f Frame) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Equal reports field-for-field equality, comparing instants by the
// moment they name rather than by zone.
func (f Frame) Equal(other Frame) bool {
	if f.ID != other.ID || f.Project != other.Project {
		return false
	}
	if !f.Start.Equal(other.Start) || !f.Stop.Equal(other.Stop) {
		return false
	}
	if !f.UpdatedAt.Equal(other.UpdatedAt) {
		return false
	}
	if len(f.Tags) != len(other.Tags) {
		return false
	}
	for i := range f.Tags {
		if f.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// Deduplicate removes duplicate tags, keeping the first occurrence. Order
// matters downstream: tag-level totals are listed in insertion order.
func Deduplicate(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
