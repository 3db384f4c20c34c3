package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dtroode/taskdesk/internal/model"
	"github.com/dtroode/taskdesk/internal/service"
)

func (a *App) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return usageError(errors.New("missing admin command"))
		},
	}

	cmd.AddCommand(
		a.adminTasksCommand(),
		a.adminUsersCommand(),
		a.adminCreateCommand(),
		a.adminUpdateCommand(),
		a.adminDeleteCommand(),
	)

	return cmd
}

func (a *App) adminTasksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List every task",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.admin.Mount(cmd.Context())
			if err != nil && view.Redirect != model.RouteNone {
				return redirectFailure(view.Error, view.Redirect, err)
			}

			a.renderAdmin(cmd, view)
			if err != nil {
				return failure("", err)
			}
			return nil
		},
	}
}

func (a *App) adminUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the user directory",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.admin.RefreshUsers(cmd.Context())
			view := a.admin.View()
			if err != nil {
				if view.Redirect != model.RouteNone {
					return redirectFailure(view.Error, view.Redirect, err)
				}
				return failure(orError(view.Error, err), err)
			}

			panel(cmd.OutOrStdout(), "Users", userLines(view.Users))
			return nil
		},
	}
}

func (a *App) adminCreateCommand() *cobra.Command {
	var in model.TaskInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task and assign it",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMutation(cmd, "Task created", func() error {
				return a.admin.CreateTask(cmd.Context(), in)
			})
		},
	}

	taskFlags(cmd, &in)
	return cmd
}

func (a *App) adminUpdateCommand() *cobra.Command {
	var in model.TaskInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a task's title, description and assignee",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMutation(cmd, "Task updated", func() error {
				return a.admin.UpdateTask(cmd.Context(), args[0], in)
			})
		},
	}

	taskFlags(cmd, &in)
	return cmd
}

func (a *App) adminDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMutation(cmd, "Task deleted", func() error {
				return a.admin.DeleteTask(cmd.Context(), args[0])
			})
		},
	}
}

func taskFlags(cmd *cobra.Command, in *model.TaskInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "task title")
	cmd.Flags().StringVar(&in.Description, "description", "", "task description")
	cmd.Flags().StringVar(&in.AssignedTo, "assign", "", "assignee id, name or email")
}

func (a *App) runMutation(cmd *cobra.Command, done string, call func() error) error {
	err := call()
	view := a.admin.View()
	if err != nil {
		if view.Redirect != model.RouteNone {
			return redirectFailure(view.Error, view.Redirect, err)
		}
		return failure(orError(view.Error, err), err)
	}

	ok(cmd.OutOrStdout(), done)
	a.renderAdmin(cmd, view)
	return nil
}

func (a *App) renderAdmin(cmd *cobra.Command, view service.AdminView) {
	out := cmd.OutOrStdout()

	if view.Error != "" {
		fail(cmd.ErrOrStderr(), view.Error)
	}
	if view.Notice != "" {
		notice(out, view.Notice)
	}
	if len(view.Tasks) > 0 {
		panel(out, "All tasks", taskLines(view.Tasks, directory(view.Users)))
	}
}

func (a *App) tasksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "Show the tasks assigned to you",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.user.Mount(cmd.Context())
			if err != nil && view.Redirect != model.RouteNone {
				return redirectFailure(view.Error, view.Redirect, err)
			}

			out := cmd.OutOrStdout()
			if view.Name != "" {
				notice(out, "Welcome, "+view.Name)
			}
			if view.Error != "" {
				fail(cmd.ErrOrStderr(), view.Error)
			}
			if view.Notice != "" {
				notice(out, view.Notice)
			}
			if len(view.Tasks) > 0 {
				panel(out, "My tasks", taskLines(view.Tasks, nil))
			}

			if err != nil {
				return failure("", err)
			}
			return nil
		},
	}
}

func redirectFailure(msg string, route model.Route, err error) error {
	msg = orError(msg, err)
	if hint := routeHint(route); hint != "" {
		msg += "; " + hint
	}
	return failure(msg, err)
}

func orError(msg string, err error) string {
	if msg != "" {
		return msg
	}
	return err.Error()
}
