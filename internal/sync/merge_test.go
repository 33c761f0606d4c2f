package sync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/frame"
)

// writeFramesFile writes records in the persisted frames layout.
func writeFramesFile(t *testing.T, records [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frames-with-conflict.json")
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestMergeReport_Classification(t *testing.T) {
	tm := newTimer(t, config.DefaultConfig())

	// Local store: id-1 (local only), id-2 (will diverge).
	id1 := "11111111111111111111111111111111"
	id2 := "22222222222222222222222222222222"
	id3 := "33333333333333333333333333333333"

	_, err := tm.Frames().Add("apollo", time.Unix(10, 0), time.Unix(40, 0), nil, id1, time.Unix(50, 0))
	require.NoError(t, err)
	_, err = tm.Frames().Add("gemini", time.Unix(20, 0), time.Unix(45, 0), nil, id2, time.Unix(50, 0))
	require.NoError(t, err)

	// External set: id-2 with a different stop, id-3 unknown locally.
	path := writeFramesFile(t, [][]any{
		{int64(20), int64(46), "gemini", id2, []string{}, int64(60)},
		{int64(50), int64(70), "mercury", id3, []string{"new"}, int64(60)},
	})

	conflicting, merging, err := MergeReport(tm, path)
	require.NoError(t, err)

	require.Len(t, conflicting, 1)
	require.Equal(t, id2, conflicting[0].Local.ID)
	require.Equal(t, int64(45), conflicting[0].Local.Stop.Unix())
	require.Equal(t, int64(46), conflicting[0].Remote.Stop.Unix())

	require.Len(t, merging, 1)
	require.Equal(t, id3, merging[0].ID)
}

func TestMergeReport_EqualFramesIgnored(t *testing.T) {
	tm := newTimer(t, config.DefaultConfig())
	id := "11111111111111111111111111111111"
	_, err := tm.Frames().Add("apollo", time.Unix(10, 0), time.Unix(40, 0), []string{"deep"}, id, time.Unix(50, 0))
	require.NoError(t, err)

	path := writeFramesFile(t, [][]any{
		{int64(10), int64(40), "apollo", id, []string{"deep"}, int64(50)},
	})

	conflicting, merging, err := MergeReport(tm, path)
	require.NoError(t, err)
	require.Empty(t, conflicting)
	require.Empty(t, merging)
}

func TestMergeReport_MalformedFile(t *testing.T) {
	tm := newTimer(t, config.DefaultConfig())
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0600))

	_, _, err := MergeReport(tm, path)
	if !errors.Is(err, errors.ErrMalformedData) {
		t.Errorf("err = %v, want MALFORMED_DATA", err)
	}
}

func TestApplyMerge(t *testing.T) {
	tm := newTimer(t, config.DefaultConfig())
	id2 := "22222222222222222222222222222222"
	id3 := "33333333333333333333333333333333"
	_, err := tm.Frames().Add("gemini", time.Unix(20, 0), time.Unix(45, 0), nil, id2, time.Unix(50, 0))
	require.NoError(t, err)

	path := writeFramesFile(t, [][]any{
		{int64(20), int64(46), "gemini", id2, []string{}, int64(60)},
		{int64(50), int64(70), "mercury", id3, []string{"new"}, int64(60)},
	})
	conflicting, merging, err := MergeReport(tm, path)
	require.NoError(t, err)
	require.Len(t, conflicting, 1)
	require.Len(t, merging, 1)

	// User keeps the remote side of the conflict.
	keep := []frame.Frame{conflicting[0].Remote}
	require.NoError(t, ApplyMerge(tm, keep, merging))

	require.Equal(t, 2, tm.Frames().Len())
	require.True(t, tm.Frames().Changed(), "apply must force the changed flag")

	overwritten, err := tm.Frames().ByID(id2)
	require.NoError(t, err)
	require.Equal(t, int64(46), overwritten.Stop.Unix())

	appended, err := tm.Frames().ByID(id3)
	require.NoError(t, err)
	require.Equal(t, "mercury", appended.Project)
	require.Equal(t, []string{"new"}, appended.Tags)
	require.Equal(t, int64(60), appended.UpdatedAt.Unix(), "merge must preserve the external updated_at")
}
