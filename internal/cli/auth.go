package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/taskdesk/internal/api/http/client"
	"github.com/dtroode/taskdesk/internal/model"
	"github.com/dtroode/taskdesk/internal/service"
)

func (a *App) signupCommand() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := a.auth.Signup(cmd.Context(), name, email, password)
			switch {
			case errors.Is(err, model.ErrInvalidEmail):
				return failure(fmt.Sprintf("%s: %q", service.MsgInvalidEmail, email), err)
			case errors.Is(err, model.ErrValidation):
				return failure(service.MsgFillAllFields, err)
			case err != nil:
				return failure(client.Message(err, service.MsgSignupFailed), err)
			}

			ok(cmd.OutOrStdout(), fmt.Sprintf("Signed up as %s. You can now log in.", rec.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.auth.Login(cmd.Context(), email, password)
			switch {
			case errors.Is(err, model.ErrValidation):
				return failure(service.MsgFillAllFields, err)
			case errors.Is(err, model.ErrInvalidCredentials):
				return failure(service.MsgInvalidCredentials, err)
			case err != nil:
				return failure(err.Error(), err)
			}

			route := model.RouteUser
			if session.Role == model.RoleAdmin {
				route = model.RouteAdmin
			}

			out := cmd.OutOrStdout()
			ok(out, fmt.Sprintf("Logged in as %s (%s)", session.DisplayName, session.Role))
			notice(out, "Next: "+routeHint(route))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return failure(err.Error(), err)
			}
			ok(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *App) statusCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			session, err := a.auth.Restore(cmd.Context())
			if errors.Is(err, model.ErrMissingSession) {
				panel(out, "Session", []string{"state: " + string(a.auth.State())})
				notice(out, "Next: "+routeHint(model.RouteLogin))
				return nil
			}
			if err != nil {
				return failure(err.Error(), err)
			}

			lines := []string{
				"state: " + string(a.auth.State()),
				"name:  " + session.DisplayName,
				"email: " + session.Email,
				"role:  " + string(session.Role),
			}
			if session.UserID != "" {
				lines = append(lines, "id:    "+session.UserID)
			}

			if verbose {
				claims, err := a.auth.Inspect(session.Token)
				if err != nil {
					lines = append(lines, "token: unreadable ("+err.Error()+")")
				} else {
					lines = append(lines,
						"token id:      "+claims.ID,
						"token subject: "+claims.Subject,
						"issued at:     "+claims.IssuedAt.Format(time.RFC3339),
					)
				}
			}

			panel(out, "Session", lines)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also show token claims")

	return cmd
}
