package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task is a backend-owned task record.
type Task struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
}

// TaskInput is the body of task create and update calls.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
}

// Complete reports whether every field is filled.
func (in TaskInput) Complete() bool {
	return in.Title != "" && in.Description != "" && in.AssignedTo != ""
}

type wireTask struct {
	MongoID     string          `json:"_id"`
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	AssignedTo  json.RawMessage `json:"assignedTo"`
	Status      string          `json:"status"`
}

// UnmarshalJSON accepts either _id or id, and assignedTo as an identifier or a populated user.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	assignee, err := decodeAssignee(w.AssignedTo)
	if err != nil {
		return fmt.Errorf("assignedTo: %w", err)
	}

	*t = Task{
		ID:          firstNonEmpty(w.MongoID, w.ID),
		Title:       w.Title,
		Description: w.Description,
		AssignedTo:  assignee,
		Status:      w.Status,
	}
	return nil
}

func decodeAssignee(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{':
		var u User
		if err := json.Unmarshal(raw, &u); err != nil {
			return "", err
		}
		return firstNonEmpty(u.ID, u.Name), nil
	default:
		return string(raw), nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
