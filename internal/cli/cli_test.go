package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskdesk/internal/api/http/client"
	"github.com/dtroode/taskdesk/internal/model"
	"github.com/dtroode/taskdesk/internal/service"
)

type fakeAuth struct {
	session  model.Session
	err      error
	state    model.SessionState
	claims   model.TokenClaims
	loggedIn []string
	signedUp []string
	logouts  int
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (model.Session, error) {
	f.loggedIn = append(f.loggedIn, email)
	return f.session, f.err
}

func (f *fakeAuth) Signup(_ context.Context, _, email, _ string) (model.CredentialRecord, error) {
	f.signedUp = append(f.signedUp, email)
	return model.CredentialRecord{Email: email}, f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.err
}

func (f *fakeAuth) Restore(context.Context) (model.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) State() model.SessionState { return f.state }

func (f *fakeAuth) Inspect(string) (model.TokenClaims, error) { return f.claims, nil }

type fakeAdmin struct {
	view    service.AdminView
	err     error
	created []model.TaskInput
	updated []string
	deleted []string
}

func (f *fakeAdmin) Mount(context.Context) (service.AdminView, error) { return f.view, f.err }
func (f *fakeAdmin) RefreshUsers(context.Context) error               { return f.err }
func (f *fakeAdmin) View() service.AdminView                          { return f.view }

func (f *fakeAdmin) CreateTask(_ context.Context, in model.TaskInput) error {
	f.created = append(f.created, in)
	return f.err
}

func (f *fakeAdmin) UpdateTask(_ context.Context, id string, _ model.TaskInput) error {
	f.updated = append(f.updated, id)
	return f.err
}

func (f *fakeAdmin) DeleteTask(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

type fakeUser struct {
	view service.UserView
	err  error
}

func (f *fakeUser) Mount(context.Context) (service.UserView, error) { return f.view, f.err }

func run(t *testing.T, app *App, args ...string) (int, string, string) {
	t.Helper()

	root := app.Command()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	code := ExitOK
	if err != nil {
		var ee *exitError
		require.ErrorAs(t, err, &ee)
		code = ee.code
		if ee.msg != "" {
			fail(&stderr, ee.msg)
		}
	}
	return code, stdout.String(), stderr.String()
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		auth     *fakeAuth
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{
			name:     "admin",
			auth:     &fakeAuth{session: model.Session{Role: model.RoleAdmin, DisplayName: "Admin"}},
			wantCode: ExitOK,
			wantOut:  "taskdesk admin tasks",
		},
		{
			name:     "user",
			auth:     &fakeAuth{session: model.Session{Role: model.RoleUser, DisplayName: "Alice"}},
			wantCode: ExitOK,
			wantOut:  "taskdesk tasks",
		},
		{
			name:     "invalid credentials",
			auth:     &fakeAuth{err: model.ErrInvalidCredentials},
			wantCode: ExitFailure,
			wantErr:  service.MsgInvalidCredentials,
		},
		{
			name:     "missing fields",
			auth:     &fakeAuth{err: model.ErrValidation},
			wantCode: ExitUsage,
			wantErr:  service.MsgFillAllFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New(tt.auth, &fakeAdmin{}, &fakeUser{}, "test")

			code, stdout, stderr := run(t, app, "login", "--email", "a@b.c", "--password", "pw")
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stdout, tt.wantOut)
			assert.Contains(t, stderr, tt.wantErr)
			assert.Equal(t, []string{"a@b.c"}, tt.auth.loggedIn)
		})
	}
}

func TestSignup_BackendError(t *testing.T) {
	apiErr := &client.Error{Kind: model.ErrNetworkOrServer, Status: 400, Message: "User already exists"}
	auth := &fakeAuth{err: apiErr}
	app := New(auth, &fakeAdmin{}, &fakeUser{}, "test")

	code, _, stderr := run(t, app, "signup", "--name", "A", "--email", "a@b.c", "--password", "pw")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "User already exists")

	auth.err = errors.New("connection refused")
	code, _, stderr = run(t, app, "signup", "--name", "A", "--email", "a@b.c", "--password", "pw")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, service.MsgSignupFailed)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		email   string
		wantErr string
	}{
		{
			name:    "malformed email",
			err:     fmt.Errorf("%w: %q", model.ErrInvalidEmail, "not-an-email"),
			email:   "not-an-email",
			wantErr: `Please enter a valid email address: "not-an-email"`,
		},
		{
			name:    "missing fields",
			err:     fmt.Errorf("%w: name, email and password are required", model.ErrValidation),
			email:   "a@b.c",
			wantErr: service.MsgFillAllFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New(&fakeAuth{err: tt.err}, &fakeAdmin{}, &fakeUser{}, "test")

			code, _, stderr := run(t, app, "signup", "--name", "A", "--email", tt.email, "--password", "pw")
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestLogout(t *testing.T) {
	auth := &fakeAuth{}
	app := New(auth, &fakeAdmin{}, &fakeUser{}, "test")

	code, stdout, _ := run(t, app, "logout")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Logged out")
	assert.Equal(t, 1, auth.logouts)
}

func TestStatus(t *testing.T) {
	auth := &fakeAuth{
		session: model.Session{Token: "tok", Role: model.RoleUser, UserID: "u1", Email: "a@b.c", DisplayName: "Alice"},
		state:   model.StateAuthenticated,
		claims:  model.TokenClaims{ID: "jti-1", Subject: "u1", IssuedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	app := New(auth, &fakeAdmin{}, &fakeUser{}, "test")

	code, stdout, _ := run(t, app, "status", "-v")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "authenticated")
	assert.Contains(t, stdout, "a@b.c")
	assert.Contains(t, stdout, "jti-1")
	assert.Contains(t, stdout, "2025-01-02T03:04:05Z")

	anon := &fakeAuth{err: model.ErrMissingSession, state: model.StateAnonymous}
	code, stdout, _ = run(t, New(anon, &fakeAdmin{}, &fakeUser{}, "test"), "status")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "anonymous")
	assert.Contains(t, stdout, "taskdesk login")
}

func TestAdminTasks(t *testing.T) {
	admin := &fakeAdmin{view: service.AdminView{
		Tasks: []model.Task{{ID: "t1", Title: "Write docs", Description: "All of them", AssignedTo: "u1"}},
		Users: []model.User{{ID: "u1", Name: "Alice"}},
	}}
	app := New(&fakeAuth{}, admin, &fakeUser{}, "test")

	code, stdout, _ := run(t, app, "admin", "tasks")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Write docs")
	assert.Contains(t, stdout, "Alice")
}

func TestAdminTasks_Redirects(t *testing.T) {
	tests := []struct {
		name    string
		view    service.AdminView
		err     error
		wantErr string
	}{
		{
			name:    "no session",
			view:    service.AdminView{Error: service.MsgMissingSession, Redirect: model.RouteLogin},
			err:     model.ErrMissingSession,
			wantErr: "No token found, please login; run `taskdesk login` first",
		},
		{
			name:    "not admin",
			view:    service.AdminView{Redirect: model.RouteUser},
			err:     model.ErrForbidden,
			wantErr: "run `taskdesk tasks`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New(&fakeAuth{}, &fakeAdmin{view: tt.view, err: tt.err}, &fakeUser{}, "test")

			code, _, stderr := run(t, app, "admin", "tasks")
			assert.Equal(t, ExitFailure, code)
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func TestAdminCreate(t *testing.T) {
	admin := &fakeAdmin{view: service.AdminView{Tasks: []model.Task{{ID: "t1", Title: "T"}}}}
	app := New(&fakeAuth{}, admin, &fakeUser{}, "test")

	code, stdout, _ := run(t, app, "admin", "create", "--title", "T", "--description", "D", "--assign", "Alice")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Task created")
	assert.Equal(t, []model.TaskInput{{Title: "T", Description: "D", AssignedTo: "Alice"}}, admin.created)
}

func TestAdminCreate_Failure(t *testing.T) {
	admin := &fakeAdmin{
		view: service.AdminView{Error: service.MsgFillAllFields},
		err:  model.ErrValidation,
	}
	app := New(&fakeAuth{}, admin, &fakeUser{}, "test")

	code, _, stderr := run(t, app, "admin", "create", "--title", "T")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, service.MsgFillAllFields)
}

func TestAdminUpdateDelete(t *testing.T) {
	admin := &fakeAdmin{}
	app := New(&fakeAuth{}, admin, &fakeUser{}, "test")

	code, _, _ := run(t, app, "admin", "update", "t1", "--title", "T", "--description", "D", "--assign", "u1")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"t1"}, admin.updated)

	code, _, _ = run(t, app, "admin", "delete", "t9")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, []string{"t9"}, admin.deleted)

	code, _, _ = run(t, app, "admin", "delete")
	assert.Equal(t, ExitUsage, code)
}

func TestTasks(t *testing.T) {
	user := &fakeUser{view: service.UserView{Name: "Alice", Notice: service.MsgNoAssignedTasks}}
	app := New(&fakeAuth{}, &fakeAdmin{}, user, "test")

	code, stdout, _ := run(t, app, "tasks")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Welcome, Alice")
	assert.Contains(t, stdout, service.MsgNoAssignedTasks)
}

func TestUsage(t *testing.T) {
	app := New(&fakeAuth{}, &fakeAdmin{}, &fakeUser{}, "test")

	code, _, _ := run(t, app)
	assert.Equal(t, ExitUsage, code)

	code, _, _ = run(t, app, "bogus")
	assert.Equal(t, ExitUsage, code)

	code, _, _ = run(t, app, "login", "--nope")
	assert.Equal(t, ExitUsage, code)
}

func TestExecute(t *testing.T) {
	auth := &fakeAuth{err: model.ErrInvalidCredentials}
	app := New(auth, &fakeAdmin{}, &fakeUser{}, "test")

	assert.Equal(t, ExitFailure, app.Execute(context.Background(), []string{"login", "--email", "x@y.z", "--password", "pw"}))
	assert.Equal(t, ExitOK, New(&fakeAuth{}, &fakeAdmin{}, &fakeUser{}, "test").Execute(context.Background(), []string{"logout"}))
}
