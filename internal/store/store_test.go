package store

import (
	"testing"
	"time"

	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/frame"
)

var base = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

func addFrame(t *testing.T, s *Frames, project string, startOffset, stopOffset time.Duration, tags []string, id string) frame.Frame {
	t.Helper()
	f, err := s.Add(project, base.Add(startOffset), base.Add(stopOffset), tags, id, time.Time{})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return f
}

func TestAdd_AssignsIDAndMarksChanged(t *testing.T) {
	s := New(nil)
	if s.Changed() {
		t.Error("fresh store should not be changed")
	}

	f := addFrame(t, s, "apollo", 0, time.Hour, []string{"deep", "deep", "focus"}, "")

	if len(f.ID) != 32 {
		t.Errorf("ID length = %d, want 32", len(f.ID))
	}
	if len(f.Tags) != 2 {
		t.Errorf("Tags = %v, want deduplicated pair", f.Tags)
	}
	if !s.Changed() {
		t.Error("Add must mark the store changed")
	}

	got, err := s.ByID(f.ID)
	if err != nil {
		t.Fatalf("ByID failed: %v", err)
	}
	if !got.Equal(f) {
		t.Errorf("ByID returned %+v, want %+v", got, f)
	}
}

func TestByIndex_NegativeIndexing(t *testing.T) {
	s := New(nil)
	addFrame(t, s, "a", 0, time.Hour, nil, "")
	last := addFrame(t, s, "b", 2*time.Hour, 3*time.Hour, nil, "")

	got, err := s.ByIndex(-1)
	if err != nil {
		t.Fatalf("ByIndex(-1) failed: %v", err)
	}
	if got.ID != last.ID {
		t.Errorf("ByIndex(-1) = %q, want %q", got.ID, last.ID)
	}

	if _, err := s.ByIndex(2); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("ByIndex(2) err = %v, want NOT_FOUND", err)
	}
	if _, err := s.ByIndex(-3); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("ByIndex(-3) err = %v, want NOT_FOUND", err)
	}
}

func TestByID_PrefixLookup(t *testing.T) {
	s := New(nil)
	addFrame(t, s, "a", 0, time.Hour, nil, "abcdef")
	addFrame(t, s, "b", time.Hour, 2*time.Hour, nil, "abcxyz")
	addFrame(t, s, "c", 2*time.Hour, 3*time.Hour, nil, "defghi")

	t.Run("unique prefix", func(t *testing.T) {
		got, err := s.ByID("def")
		if err != nil {
			t.Fatalf("ByID(def) failed: %v", err)
		}
		if got.ID != "defghi" {
			t.Errorf("ByID(def) = %q, want %q", got.ID, "defghi")
		}
	})

	t.Run("exact match beats prefix", func(t *testing.T) {
		got, err := s.ByID("abcdef")
		if err != nil {
			t.Fatalf("ByID(abcdef) failed: %v", err)
		}
		if got.ID != "abcdef" {
			t.Errorf("ByID(abcdef) = %q, want %q", got.ID, "abcdef")
		}
	})

	t.Run("ambiguous prefix errors", func(t *testing.T) {
		_, err := s.ByID("abc")
		if !errors.Is(err, errors.ErrAmbiguousID) {
			t.Errorf("ByID(abc) err = %v, want AMBIGUOUS_ID", err)
		}
	})

	t.Run("no match errors", func(t *testing.T) {
		_, err := s.ByID("zzz")
		if !errors.Is(err, errors.ErrNotFound) {
			t.Errorf("ByID(zzz) err = %v, want NOT_FOUND", err)
		}
	})
}

func TestResolve(t *testing.T) {
	s := New(nil)
	first := addFrame(t, s, "a", 0, time.Hour, nil, "abcdef")

	byIndex, err := s.Resolve("0")
	if err != nil || byIndex.ID != first.ID {
		t.Errorf("Resolve(0) = (%v, %v), want first frame", byIndex.ID, err)
	}
	byID, err := s.Resolve("abc")
	if err != nil || byID.ID != first.ID {
		t.Errorf("Resolve(abc) = (%v, %v), want first frame", byID.ID, err)
	}
}

func TestResolve_NumericPrefixFallsBackToID(t *testing.T) {
	s := New(nil)
	first := addFrame(t, s, "a", 0, time.Hour, nil, "1234567890abcdef")
	second := addFrame(t, s, "b", time.Hour, 2*time.Hour, nil, "fedcba")

	// In range: position wins over the decimal id prefix.
	got, err := s.Resolve("1")
	if err != nil || got.ID != second.ID {
		t.Errorf("Resolve(1) = (%v, %v), want second frame by position", got.ID, err)
	}

	// Out of range as a position: resolves as an id prefix.
	got, err = s.Resolve("1234567")
	if err != nil {
		t.Fatalf("Resolve(1234567) failed: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("Resolve(1234567) = %q, want %q", got.ID, first.ID)
	}

	// Neither a position nor a prefix: the positional error surfaces.
	if _, err := s.Resolve("99"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Resolve(99) err = %v, want NOT_FOUND", err)
	}
}

func TestSetByID_UpsertAppends(t *testing.T) {
	s := New(nil)
	f := addFrame(t, s, "a", 0, time.Hour, nil, "abcdef")
	s.ResetChanged()

	replacement := f.Replace(frame.Override{Project: "b"})
	s.SetByID("abcdef", replacement)
	got, _ := s.ByID("abcdef")
	if got.Project != "b" {
		t.Errorf("Project = %q, want %q", got.Project, "b")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if !s.Changed() {
		t.Error("SetByID must mark the store changed")
	}

	// Unknown id appends, preserving the requested id.
	fresh, err := frame.New("c", base, base.Add(time.Hour), nil, "", time.Time{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s.SetByID("ffffff", fresh)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2 after upsert append", s.Len())
	}
	got, err = s.ByID("ffffff")
	if err != nil {
		t.Fatalf("ByID(ffffff) failed: %v", err)
	}
	if got.Project != "c" {
		t.Errorf("Project = %q, want %q", got.Project, "c")
	}
}

func TestDelete(t *testing.T) {
	s := New(nil)
	addFrame(t, s, "a", 0, time.Hour, nil, "abcdef")
	addFrame(t, s, "b", time.Hour, 2*time.Hour, nil, "defghi")
	s.ResetChanged()

	if err := s.DeleteByID("abc"); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if !s.Changed() {
		t.Error("Delete must mark the store changed")
	}

	if err := s.DeleteIndex(-1); err != nil {
		t.Fatalf("DeleteIndex failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}

	if err := s.DeleteIndex(0); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("DeleteIndex on empty store err = %v, want NOT_FOUND", err)
	}
}

func TestMoveToEnd(t *testing.T) {
	s := New(nil)
	addFrame(t, s, "a", 0, time.Hour, nil, "aaa")
	addFrame(t, s, "b", time.Hour, 2*time.Hour, nil, "bbb")
	addFrame(t, s, "c", 2*time.Hour, 3*time.Hour, nil, "ccc")
	s.ResetChanged()

	if err := s.MoveToEnd("aaa", true); err != nil {
		t.Fatalf("MoveToEnd failed: %v", err)
	}
	last, _ := s.Last()
	if last.ID != "aaa" {
		t.Errorf("last = %q, want %q", last.ID, "aaa")
	}
	if !s.Changed() {
		t.Error("MoveToEnd must mark the store changed")
	}

	if err := s.MoveToEnd("ccc", false); err != nil {
		t.Fatalf("MoveToEnd(head) failed: %v", err)
	}
	first, _ := s.ByIndex(0)
	if first.ID != "ccc" {
		t.Errorf("first = %q, want %q", first.ID, "ccc")
	}
}

func TestFilter(t *testing.T) {
	s := New(nil)
	addFrame(t, s, "apollo", 0, time.Hour, []string{"deep"}, "")
	addFrame(t, s, "apollo", 2*time.Hour, 3*time.Hour, []string{"shallow"}, "")
	addFrame(t, s, "gemini", 4*time.Hour, 5*time.Hour, []string{"deep"}, "")

	t.Run("by project", func(t *testing.T) {
		got := s.Filter(FilterOptions{Projects: []string{"apollo"}})
		if len(got) != 2 {
			t.Errorf("got %d frames, want 2", len(got))
		}
	})

	t.Run("ignore project", func(t *testing.T) {
		got := s.Filter(FilterOptions{IgnoreProjects: []string{"apollo"}})
		if len(got) != 1 || got[0].Project != "gemini" {
			t.Errorf("got %v, want only gemini", got)
		}
	})

	t.Run("by tag", func(t *testing.T) {
		got := s.Filter(FilterOptions{Tags: []string{"deep"}})
		if len(got) != 2 {
			t.Errorf("got %d frames, want 2", len(got))
		}
	})

	t.Run("ignore tag", func(t *testing.T) {
		got := s.Filter(FilterOptions{IgnoreTags: []string{"deep"}})
		if len(got) != 1 || got[0].Tags[0] != "shallow" {
			t.Errorf("got %v, want only the shallow frame", got)
		}
	})

	t.Run("span containment", func(t *testing.T) {
		span := frame.NewSpan(base, base, 0)
		got := s.Filter(FilterOptions{Span: &span})
		if len(got) != 3 {
			t.Errorf("got %d frames, want 3 within the day", len(got))
		}
	})
}

func TestFilter_IncludePartialCrops(t *testing.T) {
	s := New(nil)
	// 23:00 → 01:00, straddling midnight into Mar 6.
	addFrame(t, s, "late", 14*time.Hour, 16*time.Hour, nil, "")

	nextDay := base.AddDate(0, 0, 1)
	span := frame.NewSpan(nextDay, nextDay, 0)

	if got := s.Filter(FilterOptions{Span: &span}); len(got) != 0 {
		t.Errorf("contained-only filter returned %d frames, want 0", len(got))
	}

	got := s.Filter(FilterOptions{Span: &span, IncludePartial: true})
	if len(got) != 1 {
		t.Fatalf("partial filter returned %d frames, want 1", len(got))
	}
	if !got[0].Start.Equal(span.Start) {
		t.Errorf("cropped start = %v, want %v", got[0].Start, span.Start)
	}
}

func TestProjectsAndTags(t *testing.T) {
	s := New(nil)
	addFrame(t, s, "gemini", 0, time.Hour, []string{"b", "a"}, "")
	addFrame(t, s, "apollo", 2*time.Hour, 3*time.Hour, []string{"a"}, "")

	projects := s.Projects()
	if len(projects) != 2 || projects[0] != "apollo" || projects[1] != "gemini" {
		t.Errorf("Projects = %v, want [apollo gemini]", projects)
	}

	tags := s.Tags()
	if len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", tags)
	}
}
