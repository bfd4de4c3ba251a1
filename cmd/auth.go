package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/repositories"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the two-step login and stores the resulting session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	if email == "" && r.config != nil {
		email = r.config.Credentials.Email
	}
	password := cmd.String("password")

	if email == "" {
		return fmt.Errorf("%w: --email or credentials.email is required", shared.ErrMissingArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: --password or PLAYX_PASSWORD is required", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "email", email)

	outcome, err := r.library.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !outcome.Succeeded() {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, outcome.Result())
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	stored := models.NewStoredSession(0, email, outcome.Session())
	if err := repositories.NewSessionRepository(db).Create(stored); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	r.logger.Info("session stored", "id", stored.ID())
	return r.writePlain("✓ Logged in as %s\n", email)
}

// AuthStatus prints the stored session with its secrets masked.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	stored, err := r.storedSession()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlain("Authentication: ✗ Not logged in\n")
	}
	if err != nil {
		return err
	}

	session := stored.Session()
	r.writePlain("Authentication: ✓ Logged in\n")
	r.writePlain("Email:      %s\n", stored.Email())
	r.writePlain("Since:      %s\n", stored.CreatedAt().Format("2006-01-02 15:04:05"))
	r.writePlain("Auth token: %s\n", shared.Mask(session.AuthToken()))
	r.writePlain("xt:         %s\n", shared.Mask(session.XT()))
	return r.writePlain("sjsaid:     %s\n", shared.Mask(session.SJSAID()))
}

// AuthLogout soft-deletes the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	stored, err := r.storedSession()
	if err != nil {
		return err
	}

	if err := repositories.NewSessionRepository(r.db).Delete(stored.ID()); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	r.logger.Info("session removed", "email", stored.Email())
	return r.writePlain("✓ Logged out %s\n", stored.Email())
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Exchange account credentials for a session and store it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email (defaults to credentials.email)",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password",
						Sources: cli.EnvVars("PLAYX_PASSWORD"),
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the stored session",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}
