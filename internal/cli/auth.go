package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/lyrebird/client"
)

func credentials(a *appState, email, password string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("--email is required")
	}
	if password != "" {
		return password, nil
	}
	return a.readPassword("Password: ")
}

func newRegisterCmd(a *appState) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			s.SetAuthMode(client.ModeSignup)
			pw, err := credentials(a, email, password)
			if err != nil {
				return err
			}
			c, err := a.client(nil)
			if err != nil {
				return err
			}
			u, err := c.Register(contextOf(cmd), email, pw)
			if err != nil {
				return a.fail(s, "register", err)
			}
			s.SetAuthMode(client.ModeLogin)
			s.ClearError()
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %s. Run 'lyrebird-cli login --email %s' to sign in.\n", u.Email, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLoginCmd(a *appState) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			s.SetAuthMode(client.ModeLogin)
			pw, err := credentials(a, email, password)
			if err != nil {
				return err
			}
			c, err := a.client(nil)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			tok, err := c.Login(ctx, email, pw)
			if err != nil {
				return a.fail(s, "login", err)
			}
			s.LoggedIn(tok.AccessToken)

			if rules, err := c.WithToken(tok.AccessToken).Preferences(ctx); err == nil {
				s.SetPreferences(rules)
			}
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s.\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			s.Logout()
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, c, err := a.authed()
			if err != nil {
				return err
			}
			u, err := c.Me(contextOf(cmd))
			if err != nil {
				return a.fail(s, "whoami", err)
			}
			fmt.Fprintf(a.out, "%s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
}
