package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/perpusctl/internal/session"
	"github.com/blackwell-systems/perpusctl/internal/tui"
	"github.com/blackwell-systems/perpusctl/internal/util"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in to the library backend. The token and account are stored in
session.path (default ~/.config/perpusctl/session.yml).

Missing credentials are prompted for. PERPUSCTL_PASSWORD can supply the
password for scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd.Context(), username, password)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

// signIn prompts for whatever credentials are missing and stores the
// session on success.
func signIn(ctx context.Context, username, password string) error {
	if password == "" {
		password = os.Getenv("PERPUSCTL_PASSWORD")
	}
	if password == "" && util.Interactive(flagNoInteractive) {
		creds, err := tui.RunLoginForm(client.BaseURL(), username)
		if err != nil {
			return err
		}
		username, password = creds.Username, creds.Password
	}
	if username == "" {
		username = prompt("Username", "")
	}
	if password == "" {
		password = prompt("Password", "")
	}
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	u, err := session.Login(ctx, client, store, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	ok("Signed in as %s (%s)", u.DisplayName(), u.Role)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Logout(cmd.Context(), client, store, logger); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			ok("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := store.User()
			if err != nil {
				warn("Not signed in")
				return nil
			}

			header("Session")
			printField("user", u.DisplayName())
			printField("username", u.Username)
			printField("role", string(u.Role))
			if u.NIM != "" {
				printField("nim", u.NIM)
			}

			state := color.GreenString("valid")
			if claims, err := session.InspectToken(store.Token()); err == nil && !claims.ExpiresAt.IsZero() {
				state += "  expires " + claims.ExpiresAt.Local().Format(time.DateTime)
			}
			if !store.Authenticated(time.Now()) {
				state = color.RedString("expired") + "  run 'perpusctl login'"
			}
			printField("token", state)
			printField("server", cfg.API.EffectiveURL())
			return nil
		},
	}
}
