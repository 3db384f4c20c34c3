package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dtroode/taskdesk/internal/api/http/client"
	"github.com/dtroode/taskdesk/internal/logger"
	"github.com/dtroode/taskdesk/internal/model"
)

// AdminAPI is the part of the backend the admin dashboard talks to.
type AdminAPI interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// AdminView is what the admin dashboard shows.
type AdminView struct {
	Tasks    []model.Task
	Users    []model.User
	Error    string
	Notice   string
	Loading  bool
	Redirect model.Route
}

// AdminDashboard lists every task and lets an admin create, update and
// delete them.
type AdminDashboard struct {
	sessions model.SessionSource
	api      AdminAPI
	logger   *logger.Logger

	busy atomic.Bool

	mu   sync.Mutex
	view AdminView
}

func NewAdminDashboard(sessions model.SessionSource, api AdminAPI, logger *logger.Logger) *AdminDashboard {
	return &AdminDashboard{
		sessions: sessions,
		api:      api,
		logger:   logger,
	}
}

// View returns a copy of the current view.
func (d *AdminDashboard) View() AdminView {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.view
	v.Tasks = slices.Clone(d.view.Tasks)
	v.Users = slices.Clone(d.view.Users)
	return v
}

func (d *AdminDashboard) update(fn func(v *AdminView)) {
	d.mu.Lock()
	fn(&d.view)
	d.mu.Unlock()
}

// Mount checks the session and loads tasks and the user directory.
func (d *AdminDashboard) Mount(ctx context.Context) (AdminView, error) {
	if err := d.authorize(ctx); err != nil {
		return d.View(), err
	}

	d.update(func(v *AdminView) { v.Loading = true })

	tasksErr := d.refreshTasks(ctx)
	usersErr := d.refreshUsers(ctx)

	d.update(func(v *AdminView) { v.Loading = false })
	return d.View(), errors.Join(tasksErr, usersErr)
}

// RefreshTasks reloads the full task list.
func (d *AdminDashboard) RefreshTasks(ctx context.Context) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}
	return d.refreshTasks(ctx)
}

// RefreshUsers reloads the user directory.
func (d *AdminDashboard) RefreshUsers(ctx context.Context) error {
	if err := d.authorize(ctx); err != nil {
		return err
	}
	return d.refreshUsers(ctx)
}

// CreateTask creates a task and reloads the list. AssignedTo may name a
// user by id, name or email.
func (d *AdminDashboard) CreateTask(ctx context.Context, in model.TaskInput) error {
	return d.mutate(ctx, "create task", in.Complete(), MsgFillAllFields, func() error {
		in.AssignedTo = d.resolveAssignee(ctx, in.AssignedTo)
		if _, err := d.api.CreateTask(ctx, in); err != nil {
			d.fail(mutationMessage(err, MsgCreateTask, MsgCreateTaskStatus))
			return err
		}
		return nil
	})
}

// UpdateTask replaces the fields of task id and reloads the list.
func (d *AdminDashboard) UpdateTask(ctx context.Context, id string, in model.TaskInput) error {
	msg := MsgFillAllFields
	if id == "" {
		msg = MsgTaskIDRequired
	}

	return d.mutate(ctx, "update task", id != "" && in.Complete(), msg, func() error {
		in.AssignedTo = d.resolveAssignee(ctx, in.AssignedTo)
		if _, err := d.api.UpdateTask(ctx, id, in); err != nil {
			d.fail(mutationMessage(err, MsgUpdateTask, MsgUpdateTaskStatus))
			return err
		}
		return nil
	})
}

// DeleteTask deletes task id and reloads the list.
func (d *AdminDashboard) DeleteTask(ctx context.Context, id string) error {
	return d.mutate(ctx, "delete task", id != "", MsgTaskIDRequired, func() error {
		if err := d.api.DeleteTask(ctx, id); err != nil {
			d.fail(mutationMessage(err, MsgDeleteTask, MsgDeleteTaskStatus))
			return err
		}
		return nil
	})
}

// mutate runs call under the busy flag, then reloads the task list.
func (d *AdminDashboard) mutate(ctx context.Context, op string, valid bool, invalidMsg string, call func() error) error {
	if !valid {
		d.fail(invalidMsg)
		return fmt.Errorf("%s: %w: %s", op, model.ErrValidation, invalidMsg)
	}

	if !d.busy.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", op, model.ErrBusy)
	}
	defer d.busy.Store(false)

	d.update(func(v *AdminView) {
		v.Loading = true
		v.Error = ""
	})
	defer d.update(func(v *AdminView) { v.Loading = false })

	if err := d.authorize(ctx); err != nil {
		return err
	}

	if err := call(); err != nil {
		d.logger.Error("Admin dashboard: mutation failed",
			"op", op,
			"error", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}

	d.logger.Info("Admin dashboard: mutation completed",
		"op", op)

	return d.refreshTasks(ctx)
}

// authorize requires an admin session.
func (d *AdminDashboard) authorize(ctx context.Context) error {
	session, err := d.sessions.Load(ctx)
	if errors.Is(err, model.ErrMissingSession) {
		d.update(func(v *AdminView) {
			v.Error = MsgMissingSession
			v.Redirect = model.RouteLogin
		})
		return err
	}
	if err != nil {
		d.fail(err.Error())
		return err
	}

	if session.Role != model.RoleAdmin {
		d.logger.Warn("Admin dashboard: non-admin session",
			"email", session.Email,
			"role", session.Role)
		d.update(func(v *AdminView) { v.Redirect = model.RouteUser })
		return model.ErrForbidden
	}

	d.update(func(v *AdminView) { v.Redirect = model.RouteNone })
	return nil
}

func (d *AdminDashboard) refreshTasks(ctx context.Context) error {
	tasks, err := d.api.ListTasks(ctx)
	if err != nil {
		d.logger.Error("Admin dashboard: failed to fetch tasks",
			"error", err.Error())

		if errors.Is(err, model.ErrUnexpectedResponseShape) {
			d.update(func(v *AdminView) {
				v.Tasks = []model.Task{}
				v.Notice = ""
				v.Error = MsgUnexpectedShape
			})
			return err
		}

		d.fail(client.Message(err, MsgFetchTasks))
		return err
	}

	d.update(func(v *AdminView) {
		v.Tasks = tasks
		v.Error = ""
		v.Notice = ""
		if len(tasks) == 0 {
			v.Notice = MsgNoTasks
		}
	})
	return nil
}

func (d *AdminDashboard) refreshUsers(ctx context.Context) error {
	users, err := d.api.ListUsers(ctx)
	if err != nil {
		d.logger.Error("Admin dashboard: failed to fetch users",
			"error", err.Error())
		d.fail(MsgFetchUsers)
		return err
	}

	d.update(func(v *AdminView) { v.Users = users })
	return nil
}

// resolveAssignee maps a user name or email to the user's id. Unknown
// references are passed through as ids.
func (d *AdminDashboard) resolveAssignee(ctx context.Context, ref string) string {
	d.mu.Lock()
	users := slices.Clone(d.view.Users)
	d.mu.Unlock()

	if len(users) == 0 {
		loaded, err := d.api.ListUsers(ctx)
		if err != nil {
			d.logger.Warn("Admin dashboard: user directory unavailable, using assignee as id",
				"error", err.Error())
			return ref
		}
		d.update(func(v *AdminView) { v.Users = loaded })
		users = loaded
	}

	for _, u := range users {
		if u.ID == ref {
			return ref
		}
	}
	for _, u := range users {
		if strings.EqualFold(u.Name, ref) || strings.EqualFold(u.Email, ref) {
			return u.ID
		}
	}
	return ref
}

func (d *AdminDashboard) fail(msg string) {
	d.update(func(v *AdminView) {
		v.Error = msg
		v.Notice = ""
	})
}
