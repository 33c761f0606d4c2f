package sync

import (
	"time"

	"github.com/hpungsan/lapse/internal/frame"
	"github.com/hpungsan/lapse/internal/timer"
)

// Pull fetches every remote frame updated after the local watermark and
// upserts each into the local store by id. Pull is authoritative: local
// copies are overwritten without conflict detection. Returns the received
// frames for caller reporting.
func Pull(t *timer.Timer, c *Client) ([]RemoteFrame, error) {
	received, err := c.FetchFrames(t.LastSync())
	if err != nil {
		return nil, err
	}

	for _, rf := range received {
		id, err := decodeRemoteID(rf.ID)
		if err != nil {
			return nil, err
		}
		begin, err := parseRemoteTime(rf.BeginAt)
		if err != nil {
			return nil, err
		}
		end, err := parseRemoteTime(rf.EndAt)
		if err != nil {
			return nil, err
		}
		f, err := frame.New(rf.Project, begin, end, rf.Tags, id, time.Time{})
		if err != nil {
			return nil, err
		}
		t.Frames().SetByID(id, f)
	}

	return received, nil
}

// Push sends exactly the frames updated since the last successful sync
// but not after lastPull, the instant captured before the pull phase.
// Frames mutated mid-sync stay pending until the next run. Returns the
// pushed set.
func Push(t *timer.Timer, c *Client, lastPull time.Time) ([]RemoteFrame, error) {
	var out []RemoteFrame
	lastSync := t.LastSync()
	for _, f := range t.Frames().All() {
		if lastPull.After(f.UpdatedAt) && f.UpdatedAt.After(lastSync) {
			rf, err := encodeRemote(f)
			if err != nil {
				return nil, err
			}
			out = append(out, rf)
		}
	}

	if err := c.PushFrames(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Run performs a full pull+push cycle and advances the watermark only
// after both phases succeed. The caller persists the watermark via Save.
func Run(t *timer.Timer, c *Client) (pulled, pushed []RemoteFrame, err error) {
	lastPull := time.Now().UTC()

	pulled, err = Pull(t, c)
	if err != nil {
		return nil, nil, err
	}
	pushed, err = Push(t, c, lastPull)
	if err != nil {
		return nil, nil, err
	}

	t.SetLastSync(time.Now().UTC())
	return pulled, pushed, nil
}
