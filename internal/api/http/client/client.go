// Package client is the HTTP/JSON client of the task backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dtroode/taskdesk/internal/model"
)

const maxBodySize = 1 << 20

// Client calls the task backend. Authorization is not its concern: the
// http.Client it is given is expected to carry the authorizing transport.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New creates a Client for baseURL.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{baseURL: u, http: httpClient}, nil
}

// Signup registers a user. The backend answers 201; the created user is
// returned when the body describes one.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (model.User, error) {
	body, _, err := c.do(ctx, "signup", http.MethodPost, "auth/signup", req, http.StatusCreated)
	if err != nil {
		return model.User{}, err
	}

	return decodeCreatedUser(body), nil
}

// ListTasks returns every task.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	return c.listTasks(ctx, "list tasks", "tasks")
}

// ListMyTasks returns the tasks assigned to the calling identity.
func (c *Client) ListMyTasks(ctx context.Context) ([]model.Task, error) {
	return c.listTasks(ctx, "list my tasks", "tasks/my-tasks")
}

// CreateTask creates a task; the backend answers 201.
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	body, _, err := c.do(ctx, "create task", http.MethodPost, "tasks/create", in, http.StatusCreated)
	if err != nil {
		return model.Task{}, err
	}

	return decodeTask(body), nil
}

// UpdateTask replaces title, description and assignee of task id; the backend answers 200.
func (c *Client) UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	body, _, err := c.do(ctx, "update task", http.MethodPut, "tasks/"+url.PathEscape(id), in, http.StatusOK)
	if err != nil {
		return model.Task{}, err
	}

	return decodeTask(body), nil
}

// DeleteTask deletes task id; the backend answers 200.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, "delete task", http.MethodDelete, "tasks/"+url.PathEscape(id), nil, http.StatusOK)
	return err
}

// ListUsers returns the user directory.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	const op = "list users"

	body, status, err := c.do(ctx, op, http.MethodGet, "users", nil, 0)
	if err != nil {
		return nil, err
	}
	if !isJSONArray(body) {
		return nil, shapeError(op, status, errors.New("expected a json array"))
	}

	var users []model.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, shapeError(op, status, err)
	}
	return users, nil
}

// Me returns the calling user.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	const op = "current user"

	body, status, err := c.do(ctx, op, http.MethodGet, "users/me", nil, 0)
	if err != nil {
		return model.User{}, err
	}
	if !isJSONObject(body) {
		return model.User{}, shapeError(op, status, errors.New("expected a json object"))
	}

	var u model.User
	if err := json.Unmarshal(body, &u); err != nil {
		return model.User{}, shapeError(op, status, err)
	}
	return u, nil
}

func (c *Client) listTasks(ctx context.Context, op, path string) ([]model.Task, error) {
	body, status, err := c.do(ctx, op, http.MethodGet, path, nil, 0)
	if err != nil {
		return nil, err
	}
	if !isJSONArray(body) {
		return nil, shapeError(op, status, errors.New("expected a json array"))
	}

	var tasks []model.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, shapeError(op, status, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// do sends one request. want is the exact success status, or 0 for any 2xx.
func (c *Client) do(ctx context.Context, op, method, path string, in any, want int) ([]byte, int, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, networkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, resp.StatusCode, &Error{Kind: model.ErrNetworkOrServer, Op: op, Status: resp.StatusCode, Err: err}
	}
	if len(body) > maxBodySize {
		return nil, resp.StatusCode, &Error{Kind: model.ErrNetworkOrServer, Op: op, Status: resp.StatusCode, Err: ErrBodyTooLarge}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if want != 0 {
		ok = resp.StatusCode == want
	}
	if !ok {
		return nil, resp.StatusCode, &Error{
			Kind:    model.ErrNetworkOrServer,
			Op:      op,
			Status:  resp.StatusCode,
			Message: serverMessage(body),
			Err:     fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)),
		}
	}

	return body, resp.StatusCode, nil
}

// serverMessage extracts {"error": ...} or {"message": ...} from an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Error.(string); ok && s != "" {
		return s
	}
	return payload.Message
}

// decodeTask reads a created or updated task, either bare or wrapped in {"task": ...}.
// The mutation already succeeded, so an unreadable body yields a zero Task.
func decodeTask(body []byte) model.Task {
	var wrapped struct {
		Task *model.Task `json:"task"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Task != nil {
		return *wrapped.Task
	}

	var t model.Task
	_ = json.Unmarshal(body, &t)
	return t
}

func decodeCreatedUser(body []byte) model.User {
	var wrapped struct {
		User *model.User `json:"user"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.User != nil {
		return *wrapped.User
	}

	var u model.User
	_ = json.Unmarshal(body, &u)
	return u
}

func isJSONArray(body []byte) bool {
	return strings.HasPrefix(string(bytes.TrimSpace(body)), "[")
}

func isJSONObject(body []byte) bool {
	return strings.HasPrefix(string(bytes.TrimSpace(body)), "{")
}
