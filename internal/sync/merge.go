package sync

import (
	"time"

	"github.com/hpungsan/lapse/internal/fileio"
	"github.com/hpungsan/lapse/internal/frame"
	"github.com/hpungsan/lapse/internal/store"
	"github.com/hpungsan/lapse/internal/timer"
)

// Conflict pairs a local frame against an external version of the same id
// that differs in content. Resolution is manual.
type Conflict struct {
	Local  frame.Frame
	Remote frame.Frame
}

// MergeReport classifies the frames of an external frames file against
// the local store: unknown ids are mergeable as-is, known-and-equal ids
// are already consistent and ignored, known-but-different ids conflict.
func MergeReport(t *timer.Timer, path string) (conflicting []Conflict, merging []frame.Frame, err error) {
	var records [][]any
	if _, err := fileio.LoadJSON(path, &records); err != nil {
		return nil, nil, err
	}
	external, err := store.FromRecords(records)
	if err != nil {
		return nil, nil, err
	}

	for _, ext := range external.All() {
		local, err := t.Frames().ByID(ext.ID)
		if err != nil {
			merging = append(merging, ext)
			continue
		}
		if !local.Equal(ext) {
			conflicting = append(conflicting, Conflict{Local: local, Remote: ext})
		}
	}
	return conflicting, merging, nil
}

// ApplyMerge applies the user's selections: keepRemote frames overwrite
// their local originals, merging frames are appended preserving their
// original id, timestamps, and tags. The store's changed flag is forced
// on afterward, covering the overwrite path.
func ApplyMerge(t *timer.Timer, keepRemote []frame.Frame, merging []frame.Frame) error {
	for _, f := range keepRemote {
		t.Frames().SetByID(f.ID, f)
	}
	for _, f := range merging {
		updatedAt := f.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}
		if _, err := t.Frames().Add(f.Project, f.Start, f.Stop, f.Tags, f.ID, updatedAt); err != nil {
			return err
		}
	}
	t.Frames().MarkChanged()
	return nil
}
