// Package apiclient is the thin typed HTTP client the CLI uses to talk to a
// running habitflow server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"habitflow/internal/server"
	"habitflow/internal/stats"
	"habitflow/pkg/habit"
	"habitflow/pkg/versioninfo"
)

type Client struct {
	BaseURL string
	UserID  string
	HTTP    *http.Client
}

func New(base, userID string) *Client {
	return &Client{
		BaseURL: base,
		UserID:  userID,
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserID != "" {
		req.Header.Set("X-User-ID", c.UserID)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(res.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (%s)", method, path, apiErr.Error, res.Status)
		}
		return fmt.Errorf("%s %s: %s", method, path, res.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) CreateHabit(ctx context.Context, h habit.Habit) (habit.Habit, error) {
	var created habit.Habit
	err := c.do(ctx, http.MethodPost, "/habits/", h, &created)
	return created, err
}

func (c *Client) ListHabits(ctx context.Context) ([]server.HabitWithState, error) {
	var resp server.HabitListResponse
	if err := c.do(ctx, http.MethodGet, "/habits/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Habits, nil
}

func (c *Client) LogCompletion(ctx context.Context, habitID string, mood habit.Mood, note, reflection string) (server.LogCompletionResponse, error) {
	body := map[string]any{}
	if mood != "" {
		body["mood"] = mood
	}
	if note != "" {
		body["note"] = note
	}
	if reflection != "" {
		body["reflection"] = reflection
	}
	var resp server.LogCompletionResponse
	err := c.do(ctx, http.MethodPost, "/habits/"+habitID+"/log", body, &resp)
	return resp, err
}

func (c *Client) Dashboard(ctx context.Context) (habit.DashboardStats, error) {
	var out habit.DashboardStats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out, err
}

func (c *Client) MonthCalendar(ctx context.Context, year, month int) (stats.MonthCalendar, error) {
	var out stats.MonthCalendar
	path := fmt.Sprintf("/calendar/?year=%d&month=%d", year, month)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) ServerVersion(ctx context.Context) (versioninfo.VersionInfo, error) {
	var out versioninfo.VersionInfo
	err := c.do(ctx, http.MethodGet, "/version", nil, &out)
	return out, err
}
