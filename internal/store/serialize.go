package store

import (
	"fmt"
	"time"

	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/frame"
)

// Dump serializes every frame as (start, stop, project, id, tags,
// updated_at) in store order, timestamps as epoch seconds. This is the
// exact persisted representation of the frames file.
func (s *Frames) Dump() [][]any {
	out := make([][]any, 0, len(s.rows))
	for _, f := range s.rows {
		tags := f.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, []any{
			f.Start.Unix(),
			f.Stop.Unix(),
			f.Project,
			f.ID,
			tags,
			f.UpdatedAt.Unix(),
		})
	}
	return out
}

// FromRecords reconstructs a store from a decoded frames file. Each record
// is sniffed for its layout: the current layout leads with two numeric
// timestamps, the legacy layout leads with the project name. Legacy
// records are normalized on load and receive a fresh id when absent.
func FromRecords(records [][]any) (*Frames, error) {
	rows := make([]frame.Frame, 0, len(records))
	for i, rec := range records {
		f, err := decodeRecord(rec)
		if err != nil {
			return nil, errors.NewMalformedData(fmt.Sprintf("frames[%d]", i), err)
		}
		rows = append(rows, f)
	}
	return New(rows), nil
}

func decodeRecord(rec []any) (frame.Frame, error) {
	if len(rec) < 3 {
		return frame.Frame{}, fmt.Errorf("record has %d fields, want at least 3", len(rec))
	}

	_, startNumeric := asEpoch(rec[0])
	_, stopNumeric := asEpoch(rec[1])
	if startNumeric && stopNumeric {
		return decodeCurrent(rec)
	}
	if _, ok := rec[0].(string); ok {
		return decodeLegacy(rec)
	}
	return frame.Frame{}, fmt.Errorf("unrecognized record layout")
}

// decodeCurrent parses (start, stop, project, id[, tags[, updated_at]]).
func decodeCurrent(rec []any) (frame.Frame, error) {
	if len(rec) < 4 {
		return frame.Frame{}, fmt.Errorf("record has %d fields, want at least 4", len(rec))
	}
	start, ok := asEpoch(rec[0])
	if !ok {
		return frame.Frame{}, fmt.Errorf("start is not a timestamp")
	}
	stop, ok := asEpoch(rec[1])
	if !ok {
		return frame.Frame{}, fmt.Errorf("stop is not a timestamp")
	}
	project, ok := rec[2].(string)
	if !ok {
		return frame.Frame{}, fmt.Errorf("project is not a string")
	}
	id, ok := rec[3].(string)
	if !ok {
		return frame.Frame{}, fmt.Errorf("id is not a string")
	}

	var tags []string
	if len(rec) > 4 && rec[4] != nil {
		var err error
		tags, err = asTags(rec[4])
		if err != nil {
			return frame.Frame{}, err
		}
	}

	var updatedAt time.Time
	if len(rec) > 5 && rec[5] != nil {
		ts, ok := asEpoch(rec[5])
		if !ok {
			return frame.Frame{}, fmt.Errorf("updated_at is not a timestamp")
		}
		updatedAt = ts
	}

	return frame.New(project, start, stop, tags, id, updatedAt)
}

// decodeLegacy parses the older layout (project, start, stop[, id[, tags]]).
func decodeLegacy(rec []any) (frame.Frame, error) {
	project := rec[0].(string)
	start, ok := asEpoch(rec[1])
	if !ok {
		return frame.Frame{}, fmt.Errorf("start is not a timestamp")
	}
	stop, ok := asEpoch(rec[2])
	if !ok {
		return frame.Frame{}, fmt.Errorf("stop is not a timestamp")
	}

	var id string
	if len(rec) > 3 && rec[3] != nil {
		id, ok = rec[3].(string)
		if !ok {
			return frame.Frame{}, fmt.Errorf("id is not a string")
		}
	}

	var tags []string
	if len(rec) > 4 && rec[4] != nil {
		var err error
		tags, err = asTags(rec[4])
		if err != nil {
			return frame.Frame{}, err
		}
	}

	return frame.New(project, start, stop, tags, id, time.Time{})
}

// asEpoch converts a decoded JSON number to a local-zone instant.
// encoding/json yields float64 for numbers.
func asEpoch(v any) (time.Time, bool) {
	switch n := v.(type) {
	case float64:
		return time.Unix(int64(n), 0), true
	case int64:
		return time.Unix(n, 0), true
	case int:
		return time.Unix(int64(n), 0), true
	default:
		return time.Time{}, false
	}
}

func asTags(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		tags := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("tag is not a string")
			}
			tags = append(tags, s)
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("tags is not a list")
	}
}
