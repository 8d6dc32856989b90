package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client wraps HTTP access to a running attendance service.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(config *Config) *client {
	return &client{
		baseURL: config.BaseURL,
		http:    &http.Client{Timeout: config.Timeout},
	}
}

// doJSON sends body as JSON and decodes the response into out when out
// is non-nil. Statuses outside 2xx are returned as errors.
func (c *client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(payload))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *client) loadRoster(ctx context.Context, students []Student) error {
	return c.doJSON(ctx, http.MethodPut, "/roster", students, nil)
}

func (c *client) setEnrollment(ctx context.Context, courseID string, studentIDs []string) error {
	return c.doJSON(ctx, http.MethodPut, "/enrollment/"+courseID, studentIDs, nil)
}

func (c *client) openSession(ctx context.Context, courseID string) (Session, error) {
	now := time.Now()
	payload := map[string]any{
		"course_id":  courseID,
		"date":       now.Format("2006-01-02"),
		"start_time": "00:00",
		"end_time":   "23:59",
		"room":       "SIM-1",
	}
	var sess Session
	err := c.doJSON(ctx, http.MethodPost, "/sessions", payload, &sess)
	return sess, err
}

func (c *client) closeSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodPost, "/sessions/"+sessionID+"/close", nil, nil)
}

func (c *client) checkIn(ctx context.Context, studentID, sessionID string) (bool, error) {
	payload := map[string]string{
		"student_id": studentID,
		"session_id": sessionID,
	}
	var resp checkInResponse
	if err := c.doJSON(ctx, http.MethodPost, "/checkins", payload, &resp); err != nil {
		return false, err
	}
	return resp.Duplicate, nil
}

func (c *client) sessionStats(ctx context.Context, sessionID string) (SessionStats, error) {
	var stats SessionStats
	err := c.doJSON(ctx, http.MethodGet, "/sessions/"+sessionID+"/stats", nil, &stats)
	return stats, err
}
