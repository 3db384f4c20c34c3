package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dtroode/taskdesk/internal/api/http/client"
	"github.com/dtroode/taskdesk/internal/logger"
	"github.com/dtroode/taskdesk/internal/model"
)

// UserAPI is the part of the backend the user dashboard talks to.
type UserAPI interface {
	ListMyTasks(ctx context.Context) ([]model.Task, error)
	Me(ctx context.Context) (model.User, error)
}

// UserView is what the user dashboard shows.
type UserView struct {
	Tasks    []model.Task
	Name     string
	Error    string
	Notice   string
	Loading  bool
	Redirect model.Route
}

// UserDashboard shows the tasks assigned to the session's user.
type UserDashboard struct {
	sessions model.SessionSource
	api      UserAPI
	logger   *logger.Logger

	mu   sync.Mutex
	view UserView
}

func NewUserDashboard(sessions model.SessionSource, api UserAPI, logger *logger.Logger) *UserDashboard {
	return &UserDashboard{
		sessions: sessions,
		api:      api,
		logger:   logger,
	}
}

// View returns a copy of the current view.
func (d *UserDashboard) View() UserView {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.view
	v.Tasks = slices.Clone(d.view.Tasks)
	return v
}

func (d *UserDashboard) update(fn func(v *UserView)) {
	d.mu.Lock()
	fn(&d.view)
	d.mu.Unlock()
}

// Mount checks the session, then loads the assigned tasks and the greeting.
func (d *UserDashboard) Mount(ctx context.Context) (UserView, error) {
	session, err := d.authorize(ctx)
	if err != nil {
		return d.View(), err
	}

	d.update(func(v *UserView) {
		v.Name = session.DisplayName
		v.Loading = true
	})

	tasksErr := d.refreshTasks(ctx)
	meErr := d.refreshName(ctx)

	d.update(func(v *UserView) { v.Loading = false })
	return d.View(), errors.Join(tasksErr, meErr)
}

// RefreshTasks reloads the tasks assigned to the caller.
func (d *UserDashboard) RefreshTasks(ctx context.Context) error {
	if _, err := d.authorize(ctx); err != nil {
		return err
	}
	return d.refreshTasks(ctx)
}

// authorize requires a stored session.
func (d *UserDashboard) authorize(ctx context.Context) (model.Session, error) {
	session, err := d.sessions.Load(ctx)
	if errors.Is(err, model.ErrMissingSession) {
		d.update(func(v *UserView) {
			v.Error = MsgMissingSession
			v.Redirect = model.RouteLogin
		})
		return model.Session{}, err
	}
	if err != nil {
		d.update(func(v *UserView) { v.Error = err.Error() })
		return model.Session{}, err
	}

	d.update(func(v *UserView) { v.Redirect = model.RouteNone })
	return session, nil
}

func (d *UserDashboard) refreshTasks(ctx context.Context) error {
	tasks, err := d.api.ListMyTasks(ctx)
	if err != nil {
		d.logger.Error("User dashboard: failed to fetch tasks",
			"error", err.Error())

		msg := client.Message(err, MsgFetchTasks)
		if errors.Is(err, model.ErrUnexpectedResponseShape) {
			msg = MsgUnexpectedShape
		}
		d.update(func(v *UserView) {
			v.Tasks = []model.Task{}
			v.Notice = ""
			v.Error = msg
		})
		return err
	}

	d.update(func(v *UserView) {
		v.Tasks = tasks
		v.Error = ""
		v.Notice = ""
		if len(tasks) == 0 {
			v.Notice = MsgNoAssignedTasks
		}
	})
	return nil
}

func (d *UserDashboard) refreshName(ctx context.Context) error {
	me, err := d.api.Me(ctx)
	if err != nil {
		d.logger.Error("User dashboard: failed to fetch user data",
			"error", err.Error())
		d.update(func(v *UserView) { v.Error = client.Message(err, MsgFetchUser) })
		return err
	}

	if me.Name != "" {
		d.update(func(v *UserView) { v.Name = me.Name })
	}
	return nil
}
