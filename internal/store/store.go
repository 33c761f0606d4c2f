// Package store implements the ordered frame collection: position- and
// id-keyed access with unique-prefix lookup, filtering, and the dirty flag
// that gates persistence.
package store

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/frame"
)

// Frames is an ordered collection of frames. Insertion order is the
// canonical order; negative positions address from the end. The changed
// flag records whether the in-memory store differs from the last-persisted
// version and is the sole gate for disk writes.
type Frames struct {
	rows    []frame.Frame
	changed bool
}

// New returns a store holding the given frames, with the changed flag
// clear.
func New(rows []frame.Frame) *Frames {
	return &Frames{rows: rows}
}

// Len returns the number of frames.
func (s *Frames) Len() int {
	return len(s.rows)
}

// Changed reports whether the store has been mutated since construction or
// the last ResetChanged.
func (s *Frames) Changed() bool {
	return s.changed
}

// MarkChanged forces the changed flag on. Used after merge resolution,
// where frames may have been overwritten in place.
func (s *Frames) MarkChanged() {
	s.changed = true
}

// ResetChanged clears the changed flag after a successful save.
func (s *Frames) ResetChanged() {
	s.changed = false
}

// All returns a copy of the frame sequence in store order.
func (s *Frames) All() []frame.Frame {
	out := make([]frame.Frame, len(s.rows))
	copy(out, s.rows)
	return out
}

// Last returns the most recently appended frame.
func (s *Frames) Last() (frame.Frame, bool) {
	if len(s.rows) == 0 {
		return frame.Frame{}, false
	}
	return s.rows[len(s.rows)-1], true
}

// Add constructs a frame and appends it. A fresh id is assigned when id is
// empty; tags are deduplicated preserving order.
func (s *Frames) Add(project string, start, stop time.Time, tags []string, id string, updatedAt time.Time) (frame.Frame, error) {
	f, err := frame.New(project, start, stop, tags, id, updatedAt)
	if err != nil {
		return frame.Frame{}, err
	}
	s.rows = append(s.rows, f)
	s.changed = true
	return f, nil
}

// ByIndex returns the frame at position i. Negative positions count from
// the end.
func (s *Frames) ByIndex(i int) (frame.Frame, error) {
	idx, err := s.index(i)
	if err != nil {
		return frame.Frame{}, err
	}
	return s.rows[idx], nil
}

// ByID returns the frame whose id matches exactly, or, failing that, the
// single frame whose id starts with the given string. A prefix matching
// more than one frame is an AmbiguousID error rather than a silent
// first-match.
func (s *Frames) ByID(id string) (frame.Frame, error) {
	idx, err := s.indexByID(id)
	if err != nil {
		return frame.Frame{}, err
	}
	return s.rows[idx], nil
}

// Resolve returns the frame addressed by key: an integer position when key
// parses as one, an id or id prefix otherwise. A numeric key that is out of
// range as a position falls back to prefix lookup, so frames whose ids start
// with decimal digits stay addressable.
func (s *Frames) Resolve(key string) (frame.Frame, error) {
	if i, err := strconv.Atoi(key); err == nil {
		f, idxErr := s.ByIndex(i)
		if idxErr == nil {
			return f, nil
		}
		if f, err := s.ByID(key); err == nil {
			return f, nil
		}
		return frame.Frame{}, idxErr
	}
	return s.ByID(key)
}

// SetIndex replaces the frame at position i.
func (s *Frames) SetIndex(i int, f frame.Frame) error {
	idx, err := s.index(i)
	if err != nil {
		return err
	}
	s.rows[idx] = f
	s.changed = true
	return nil
}

// SetByID replaces the frame with the given id, forcing the id onto the
// value. When no frame has the id the value is appended instead; pull
// relies on this upsert behavior.
func (s *Frames) SetByID(id string, f frame.Frame) {
	f.ID = id
	if idx, err := s.indexByID(id); err == nil {
		s.rows[idx] = f
	} else {
		s.rows = append(s.rows, f)
	}
	s.changed = true
}

// DeleteIndex removes the frame at position i.
func (s *Frames) DeleteIndex(i int) error {
	idx, err := s.index(i)
	if err != nil {
		return err
	}
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	s.changed = true
	return nil
}

// DeleteByID removes the frame with the given id or unique id prefix.
func (s *Frames) DeleteByID(id string) error {
	idx, err := s.indexByID(id)
	if err != nil {
		return err
	}
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	s.changed = true
	return nil
}

// MoveToEnd relocates the frame with the given id to the tail of the
// sequence, or to the head when last is false, without altering its
// contents.
func (s *Frames) MoveToEnd(id string, last bool) error {
	idx, err := s.indexByID(id)
	if err != nil {
		return err
	}
	f := s.rows[idx]
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	if last {
		s.rows = append(s.rows, f)
	} else {
		s.rows = append([]frame.Frame{f}, s.rows...)
	}
	s.changed = true
	return nil
}

// FilterOptions selects frames for reporting. Nil slices mean "no filter".
type FilterOptions struct {
	Projects       []string
	Tags           []string
	IgnoreProjects []string
	IgnoreTags     []string
	Span           *frame.Span
	IncludePartial bool
}

// Filter returns the frames matching every constraint in opts, in store
// order. With a span, fully contained frames pass as-is; when
// IncludePartial is set, overlapping frames pass cropped to the span.
func (s *Frames) Filter(opts FilterOptions) []frame.Frame {
	var out []frame.Frame
	for _, f := range s.rows {
		if opts.Projects != nil && !contains(opts.Projects, f.Project) {
			continue
		}
		if opts.IgnoreProjects != nil && contains(opts.IgnoreProjects, f.Project) {
			continue
		}
		if opts.Tags != nil && !anyTag(f, opts.Tags) {
			continue
		}
		if opts.IgnoreTags != nil && anyTag(f, opts.IgnoreTags) {
			continue
		}

		switch {
		case opts.Span == nil:
			out = append(out, f)
		case opts.Span.Contains(f):
			out = append(out, f)
		case opts.IncludePartial && opts.Span.Overlaps(f):
			out = append(out, opts.Span.Crop(f))
		}
	}
	return out
}

// Projects returns the sorted set of project names.
func (s *Frames) Projects() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range s.rows {
		if _, ok := seen[f.Project]; ok {
			continue
		}
		seen[f.Project] = struct{}{}
		out = append(out, f.Project)
	}
	sort.Strings(out)
	return out
}

// Tags returns the sorted set of tags across all frames.
func (s *Frames) Tags() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range s.rows {
		for _, tag := range f.Tags {
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

func (s *Frames) index(i int) (int, error) {
	idx := i
	if idx < 0 {
		idx += len(s.rows)
	}
	if idx < 0 || idx >= len(s.rows) {
		return 0, errors.NewNotFound(strconv.Itoa(i))
	}
	return idx, nil
}

// indexByID is the two-tier lookup: exact match first, then unique prefix.
func (s *Frames) indexByID(id string) (int, error) {
	for i, f := range s.rows {
		if f.ID == id {
			return i, nil
		}
	}

	matches := 0
	found := -1
	for i, f := range s.rows {
		if strings.HasPrefix(f.ID, id) {
			matches++
			found = i
		}
	}
	switch matches {
	case 0:
		return 0, errors.NewNotFound(id)
	case 1:
		return found, nil
	default:
		return 0, errors.NewAmbiguousID(id, matches)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func anyTag(f frame.Frame, tags []string) bool {
	for _, tag := range tags {
		if f.HasTag(tag) {
			return true
		}
	}
	return false
}
