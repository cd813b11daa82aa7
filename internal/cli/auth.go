package cli

import (
	"fmt"

	"github.com/Henok-Haile/crm-dashboard/internal/dashboard"
	"github.com/spf13/cobra"
)

func (a *app) credentials(cmd *cobra.Command, email string) (string, string, error) {
	if email == "" {
		var err error
		if email, err = a.promptLine(cmd, "Email: "); err != nil {
			return "", "", err
		}
	}
	password, err := a.promptPassword(cmd, "Password: ")
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func (a *app) newSignupCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := a.credentials(cmd, email)
			if err != nil {
				return err
			}
			if _, err := a.client.SignUp(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("%s: %w", dashboard.MsgSignupFailed, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.MsgSignupSucceeded)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	return cmd
}

func (a *app) newLoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := a.credentials(cmd, email)
			if err != nil {
				return err
			}
			if _, err := a.client.SignIn(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("%s: %w", dashboard.MsgLoginFailed, err)
			}
			if err := a.store.Save(a.client.Token()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.MsgLoggedIn)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.client.SignOut(cmd.Context())
			if clearErr := a.store.Clear(); clearErr != nil {
				return clearErr
			}
			if err != nil {
				return fmt.Errorf("%s: %w", dashboard.MsgLogoutFailed, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dashboard.MsgLoggedOut)
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			defer sc.Close()

			user := sc.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", user.Email, user.ID)
			return nil
		},
	}
}
