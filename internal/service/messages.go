package service

import (
	"errors"
	"strings"

	"github.com/dtroode/taskdesk/internal/api/http/client"
)

// Text shown to the caller by the dashboards and the auth commands.
const (
	MsgMissingSession     = "No token found, please login"
	MsgInvalidCredentials = "Invalid email or password"
	MsgSignupFailed       = "Failed to sign up. Please try again."
	MsgInvalidEmail       = "Please enter a valid email address"

	MsgNoTasks         = "No tasks yet."
	MsgNoAssignedTasks = "No tasks assigned yet."
	MsgUnexpectedShape = "Unexpected response format."
	MsgFetchTasks      = "Failed to fetch tasks. Please try again later."
	MsgFetchUsers      = "Failed to fetch users."
	MsgFetchUser       = "Failed to fetch user data. Please try again later."
	MsgFillAllFields   = "Please fill all the fields"
	MsgTaskIDRequired  = "Task id is required"

	MsgCreateTask       = "Error creating task"
	MsgCreateTaskStatus = "Failed to create task. Please try again."
	MsgUpdateTask       = "Error updating task"
	MsgUpdateTaskStatus = "Failed to update task. Please try again."
	MsgDeleteTask       = "Error deleting task"
	MsgDeleteTaskStatus = "Failed to delete task. Please try again."

	invalidInputPrefix = "Invalid input: "
)

// mutationMessage is the text for a failed create, update or delete. A
// success status other than the expected one gets statusFallback; server
// text mentioning validation is marked as invalid input.
func mutationMessage(err error, fallback, statusFallback string) string {
	var apiErr *client.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 200 && apiErr.Status < 300 {
		return statusFallback
	}

	msg := client.Message(err, fallback)
	if strings.Contains(msg, "validation") {
		return invalidInputPrefix + msg
	}
	return msg
}
