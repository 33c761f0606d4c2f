// Package sync reconciles the local frame store against a remote server
// (push/pull) or an exported frame set that may have diverged (merge).
package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/frame"
)

// RemoteProject is one project known to the backend.
type RemoteProject struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RemoteFrame is the wire shape of a frame: urn-form id, UTC instants.
type RemoteFrame struct {
	ID      string   `json:"id"`
	BeginAt string   `json:"begin_at"`
	EndAt   string   `json:"end_at"`
	Project string   `json:"project"`
	Tags    []string `json:"tags"`
}

// Client talks to the remote backend over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client from the configured backend. Fails with
// ConfigurationMissing when the URL or token is absent.
func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.HasBackend() {
		return nil, errors.NewConfigurationMissing()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.URL, "/"),
		token:   cfg.Backend.Token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Projects fetches the project list from the backend.
func (c *Client) Projects() ([]RemoteProject, error) {
	body, err := c.get(c.route("projects"), http.StatusOK)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Projects []RemoteProject `json:"projects"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewRemoteRejected(http.StatusOK, string(body))
	}
	return payload.Projects, nil
}

// FetchFrames fetches the frames updated after since.
func (c *Client) FetchFrames(since time.Time) ([]RemoteFrame, error) {
	dest := c.route("frames") + "?last_sync=" + url.QueryEscape(fmt.Sprintf("%d", since.Unix()))
	body, err := c.get(dest, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var frames []RemoteFrame
	if len(body) > 0 {
		if err := json.Unmarshal(body, &frames); err != nil {
			return nil, errors.NewRemoteRejected(http.StatusOK, string(body))
		}
	}
	return frames, nil
}

// PushFrames posts new or changed frames in bulk. Success is 201.
func (c *Client) PushFrames(frames []RemoteFrame) error {
	payload, err := json.Marshal(frames)
	if err != nil {
		return errors.NewInternal(err)
	}

	req, err := http.NewRequest(http.MethodPost, c.route("frames/bulk"), bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternal(err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewRemoteUnreachable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return errors.NewRemoteRejected(resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) route(path string) string {
	return c.baseURL + "/" + strings.Trim(path, "/") + "/"
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.token)
}

func (c *Client) get(dest string, wantStatus int) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, dest, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewRemoteUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRemoteUnreachable(err)
	}
	if resp.StatusCode != wantStatus {
		return nil, errors.NewRemoteRejected(resp.StatusCode, string(body))
	}
	return body, nil
}

// encodeRemote converts a local frame to its wire shape.
func encodeRemote(f frame.Frame) (RemoteFrame, error) {
	id, err := uuid.Parse(f.ID)
	if err != nil {
		return RemoteFrame{}, errors.NewInternal(fmt.Errorf("frame %s: %w", f.ID, err))
	}
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return RemoteFrame{
		ID:      id.URN(),
		BeginAt: f.Start.UTC().Format(time.RFC3339),
		EndAt:   f.Stop.UTC().Format(time.RFC3339),
		Project: f.Project,
		Tags:    tags,
	}, nil
}

// decodeRemoteID normalizes a wire id (urn or canonical form) back to the
// local 32-hex representation.
func decodeRemoteID(wire string) (string, error) {
	id, err := uuid.Parse(wire)
	if err != nil {
		return "", errors.NewMalformedData("remote frame id", err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

// parseRemoteTime accepts the instants the backend emits.
func parseRemoteTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05Z07:00"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errors.NewMalformedData("remote frame time", fmt.Errorf("unparseable instant %q", s))
}
