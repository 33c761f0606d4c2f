// Package timer owns the active-session state machine and the data files
// it persists: the frame store, the current-session state, and the
// last-sync watermark.
package timer

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/fileio"
	"github.com/hpungsan/lapse/internal/frame"
	"github.com/hpungsan/lapse/internal/store"
)

// Data file names under the base dir.
const (
	FramesFile   = "frames.json"
	StateFile    = "state.json"
	LastSyncFile = "last_sync.json"
)

// Session is the single in-progress, not-yet-persisted time interval.
type Session struct {
	Project string
	Start   time.Time
	Tags    []string
}

// Timer is the single source of truth during a process run: the frame
// store, the running session (if any), and the sync watermark, loaded from
// and saved to the base dir. Not safe for concurrent use; the design
// assumes single-process ownership of the data files.
type Timer struct {
	dir    string
	cfg    *config.Config
	frames *store.Frames

	current    *Session
	savedState *Session // last persisted session, nil for an empty state file

	lastSync         time.Time
	lastSyncSet      bool
	savedLastSync    time.Time
	savedLastSyncSet bool

	// now is swappable for tests.
	now func() time.Time
}

// stateRecord is the on-disk shape of the current-session file.
type stateRecord struct {
	Project string   `json:"project,omitempty"`
	Start   int64    `json:"start,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Open loads the timer state from dir. Absent or empty files mean empty
// state.
func Open(dir string, cfg *config.Config) (*Timer, error) {
	t := &Timer{
		dir: dir,
		cfg: cfg,
		now: time.Now,
	}

	var records [][]any
	if _, err := fileio.LoadJSON(t.framesPath(), &records); err != nil {
		return nil, err
	}
	frames, err := store.FromRecords(records)
	if err != nil {
		return nil, err
	}
	t.frames = frames

	var state stateRecord
	if _, err := fileio.LoadJSON(t.statePath(), &state); err != nil {
		return nil, err
	}
	if state.Project != "" {
		t.current = &Session{
			Project: state.Project,
			Start:   time.Unix(state.Start, 0),
			Tags:    state.Tags,
		}
		saved := *t.current
		t.savedState = &saved
	}

	var lastSync int64
	ok, err := fileio.LoadJSON(t.lastSyncPath(), &lastSync)
	if err != nil {
		return nil, err
	}
	if ok {
		t.lastSync = time.Unix(lastSync, 0)
		t.lastSyncSet = true
		t.savedLastSync = t.lastSync
		t.savedLastSyncSet = true
	}

	return t, nil
}

func (t *Timer) framesPath() string   { return filepath.Join(t.dir, FramesFile) }
func (t *Timer) statePath() string    { return filepath.Join(t.dir, StateFile) }
func (t *Timer) lastSyncPath() string { return filepath.Join(t.dir, LastSyncFile) }

// Frames returns the live frame store.
func (t *Timer) Frames() *store.Frames {
	return t.frames
}

// Config returns the loaded configuration.
func (t *Timer) Config() *config.Config {
	return t.cfg
}

// IsStarted reports whether a session is running.
func (t *Timer) IsStarted() bool {
	return t.current != nil
}

// Current returns a snapshot of the running session.
func (t *Timer) Current() (Session, bool) {
	if t.current == nil {
		return Session{}, false
	}
	return *t.current, true
}

// LastSync returns the watermark of the most recent completed
// synchronization, or the zero epoch when none has happened.
func (t *Timer) LastSync() time.Time {
	if !t.lastSyncSet {
		return time.Unix(0, 0)
	}
	return t.lastSync
}

// SetLastSync advances the watermark. It is persisted on the next Save.
func (t *Timer) SetLastSync(ts time.Time) {
	t.lastSync = ts
	t.lastSyncSet = true
}

// StartOptions modify Start behavior.
type StartOptions struct {
	// Restart inherits tags verbatim from a previous frame, skipping
	// default-tag injection.
	Restart bool

	// StartAt backdates the session start. Zero means now.
	StartAt time.Time

	// NoGap snaps the start to the previous frame's stop when no explicit
	// StartAt is given, eliminating the idle gap.
	NoGap bool
}

// Start begins a new session. Fails when one is already running, when an
// explicit start lies before the previous frame's stop, or when it lies in
// the future.
func (t *Timer) Start(project string, tags []string, opts StartOptions) (Session, error) {
	if t.current != nil {
		return Session{}, errors.NewAlreadyStarted(t.current.Project)
	}
	if strings.TrimSpace(project) == "" {
		return Session{}, errors.NewNoProjectGiven()
	}

	if !opts.Restart {
		tags = append(append([]string{}, tags...), t.cfg.ProjectDefaultTags(project)...)
	}

	now := t.now()
	startAt := opts.StartAt
	if startAt.IsZero() {
		startAt = now
		if opts.NoGap {
			if prev, ok := t.frames.Last(); ok {
				startAt = prev.Stop
			}
		}
	} else {
		// Only checked for an explicit start time, and only when previous
		// frames exist.
		if prev, ok := t.frames.Last(); ok && startAt.Before(prev.Stop) {
			return Session{}, errors.NewStartBeforePreviousEnd()
		}
	}
	if startAt.After(now) {
		return Session{}, errors.NewStartInFuture()
	}

	t.current = &Session{
		Project: project,
		Start:   startAt,
		Tags:    frame.Deduplicate(tags),
	}
	return *t.current, nil
}

// Stop ends the running session, appending the completed frame to the
// store. stopAt defaults to now when zero.
func (t *Timer) Stop(stopAt time.Time) (frame.Frame, error) {
	if t.current == nil {
		return frame.Frame{}, errors.NewNotStarted()
	}

	now := t.now()
	if stopAt.IsZero() {
		stopAt = now
	}
	if stopAt.Before(t.current.Start) {
		return frame.Frame{}, errors.NewStopBeforeStart()
	}
	if stopAt.After(now) {
		return frame.Frame{}, errors.NewStopInFuture()
	}

	f, err := t.frames.Add(t.current.Project, t.current.Start, stopAt, t.current.Tags, "", time.Time{})
	if err != nil {
		return frame.Frame{}, err
	}
	t.current = nil
	return f, nil
}

// Cancel discards the running session without creating a frame and
// returns its snapshot.
func (t *Timer) Cancel() (Session, error) {
	if t.current == nil {
		return Session{}, errors.NewNotStarted()
	}
	old := *t.current
	t.current = nil
	return old, nil
}

// Add records a completed frame directly, without touching the session.
func (t *Timer) Add(project string, from, to time.Time, tags []string) (frame.Frame, error) {
	if strings.TrimSpace(project) == "" {
		return frame.Frame{}, errors.NewNoProjectGiven()
	}
	if from.After(to) {
		return frame.Frame{}, errors.NewInvalidInterval("task cannot end before it starts")
	}

	tags = append(append([]string{}, tags...), t.cfg.ProjectDefaultTags(project)...)
	return t.frames.Add(project, from, to, tags, "", time.Time{})
}

// Save persists every changed part of the state: frames only when the
// store reports changed, the session file only when the session differs
// from the loaded copy, the watermark only when one is set. Calling Save
// twice with no intervening mutation performs no writes the second time.
func (t *Timer) Save() error {
	if t.frames.Changed() {
		if err := fileio.SaveJSON(t.framesPath(), t.frames.Dump()); err != nil {
			return err
		}
		t.frames.ResetChanged()
	}

	if t.stateChanged() {
		rec := stateRecord{}
		if t.current != nil {
			rec = stateRecord{
				Project: t.current.Project,
				Start:   t.current.Start.Unix(),
				Tags:    t.current.Tags,
			}
		}
		if err := fileio.SaveJSON(t.statePath(), rec); err != nil {
			return err
		}
		if t.current != nil {
			saved := *t.current
			t.savedState = &saved
		} else {
			t.savedState = nil
		}
	}

	if t.lastSyncSet && t.lastSyncChanged() {
		if err := fileio.SaveJSON(t.lastSyncPath(), t.lastSync.Unix()); err != nil {
			return err
		}
		t.savedLastSync = t.lastSync
		t.savedLastSyncSet = true
	}

	return nil
}

func (t *Timer) stateChanged() bool {
	switch {
	case t.current == nil && t.savedState == nil:
		return false
	case t.current == nil || t.savedState == nil:
		return true
	default:
		return !sessionEqual(*t.current, *t.savedState)
	}
}

func (t *Timer) lastSyncChanged() bool {
	return !t.savedLastSyncSet || t.savedLastSync.Unix() != t.lastSync.Unix()
}

func sessionEqual(a, b Session) bool {
	if a.Project != b.Project || a.Start.Unix() != b.Start.Unix() {
		return false
	}
	if len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	return true
}

// RenameProject renames a project in all affected frames and saves.
func (t *Timer) RenameProject(oldName, newName string) error {
	if !contains(t.frames.Projects(), oldName) {
		return errors.NewNotFound(oldName)
	}
	updatedAt := t.now().UTC()
	for _, f := range t.frames.All() {
		if f.Project == oldName {
			t.frames.SetByID(f.ID, f.Replace(frame.Override{Project: newName, UpdatedAt: updatedAt}))
		}
	}
	return t.Save()
}

// RenameTag renames a tag in all affected frames and saves.
func (t *Timer) RenameTag(oldTag, newTag string) error {
	if !contains(t.frames.Tags(), oldTag) {
		return errors.NewNotFound(oldTag)
	}
	updatedAt := t.now().UTC()
	for _, f := range t.frames.All() {
		if !f.HasTag(oldTag) {
			continue
		}
		tags := make([]string, len(f.Tags))
		for i, tag := range f.Tags {
			if tag == oldTag {
				tags[i] = newTag
			} else {
				tags[i] = tag
			}
		}
		t.frames.SetByID(f.ID, f.Replace(frame.Override{Tags: tags, UpdatedAt: updatedAt}))
	}
	return t.Save()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
