package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nzoschke/organizer/internal/model"
)

// APIError is a non-2xx response from the organizer API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("organizer api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("organizer api: %d: %s", e.StatusCode, e.Message)
}

// Reminder is a reminder as the API returns it.
type Reminder struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"dueDate"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

type Options struct {
	BaseURL  string
	UserID   string // sent as X-User-ID
	Token    string // sent as a bearer token, takes precedence over UserID
	Timezone string // sent as X-Timezone
	Timeout  time.Duration
}

type Client struct {
	baseURL    string
	userID     string
	token      string
	timezone   string
	httpClient *http.Client
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		userID:   opts.UserID,
		token:    opts.Token,
		timezone: opts.Timezone,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Habits(ctx context.Context) ([]model.HabitView, error) {
	var views []model.HabitView
	err := c.do(ctx, http.MethodGet, "/api/habits", nil, &views)
	return views, err
}

func (c *Client) Habit(ctx context.Context, id string) (*model.HabitView, error) {
	var view model.HabitView
	err := c.do(ctx, http.MethodGet, "/api/habits/"+url.PathEscape(id), nil, &view)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ToggleHabit logs completion for date. A zero date means today on the server
// and a nil completed inverts the stored value.
func (c *Client) ToggleHabit(ctx context.Context, id string, date model.Date, completed *bool) (*model.HabitLog, error) {
	body := map[string]any{}
	if !date.IsZero() {
		body["date"] = date.String()
	}
	if completed != nil {
		body["completed"] = *completed
	}

	var log model.HabitLog
	err := c.do(ctx, http.MethodPost, "/api/habits/"+url.PathEscape(id)+"/log", body, &log)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (c *Client) Reminders(ctx context.Context, status string) ([]Reminder, error) {
	path := "/api/reminders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var reminders []Reminder
	err := c.do(ctx, http.MethodGet, path, nil, &reminders)
	return reminders, err
}

func (c *Client) ToggleReminder(ctx context.Context, id string) (*Reminder, error) {
	var reminder Reminder
	err := c.do(ctx, http.MethodPatch, "/api/reminders/"+url.PathEscape(id)+"/toggle", nil, &reminder)
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
	if c.timezone != "" {
		req.Header.Set("X-Timezone", c.timezone)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
