package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dtroode/taskdesk/internal/model"
	"github.com/dtroode/taskdesk/internal/service"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Authenticator is the session side of the CLI.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.Session, error)
	Signup(ctx context.Context, name, email, password string) (model.CredentialRecord, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (model.Session, error)
	State() model.SessionState
	Inspect(token string) (model.TokenClaims, error)
}

// AdminController drives the admin commands.
type AdminController interface {
	Mount(ctx context.Context) (service.AdminView, error)
	RefreshUsers(ctx context.Context) error
	CreateTask(ctx context.Context, in model.TaskInput) error
	UpdateTask(ctx context.Context, id string, in model.TaskInput) error
	DeleteTask(ctx context.Context, id string) error
	View() service.AdminView
}

// UserController drives the tasks command.
type UserController interface {
	Mount(ctx context.Context) (service.UserView, error)
}

// App wires the controllers into a cobra command tree.
type App struct {
	auth    Authenticator
	admin   AdminController
	user    UserController
	version string
}

func New(auth Authenticator, admin AdminController, user UserController, version string) *App {
	return &App{
		auth:    auth,
		admin:   admin,
		user:    user,
		version: version,
	}
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskdesk",
		Short:         "Task desk client: sign up, log in and manage tasks",
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return usageError(errors.New("missing command"))
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		a.signupCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.statusCommand(),
		a.adminCommand(),
		a.tasksCommand(),
	)

	return root
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.Command()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if !errors.As(err, &ee) {
		ee = &exitError{msg: err.Error(), code: ExitFailure, err: err}
	}
	if ee.msg != "" {
		fail(root.ErrOrStderr(), ee.msg)
	}
	return ee.code
}

// exitError carries the text to print and the exit code of a failed command.
type exitError struct {
	msg  string
	code int
	err  error
}

func (e *exitError) Error() string { return e.msg }

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &exitError{msg: err.Error(), code: ExitUsage, err: err}
}

// failure reports msg; invalid input exits with the usage code.
func failure(msg string, err error) error {
	code := ExitFailure
	if errors.Is(err, model.ErrValidation) {
		code = ExitUsage
	}
	return &exitError{msg: msg, code: code, err: err}
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// routeHint tells the caller where to go after a redirect.
func routeHint(route model.Route) string {
	switch route {
	case model.RouteLogin:
		return "run `taskdesk login` first"
	case model.RouteAdmin:
		return "run `taskdesk admin tasks`"
	case model.RouteUser:
		return "run `taskdesk tasks`"
	}
	return ""
}
