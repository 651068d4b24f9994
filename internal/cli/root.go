// Package cli implements lyrebird-cli, a terminal dashboard for the
// Lyrebird API. Each command is one view of the dashboard; the session
// file carries state between them.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kbukum/lyrebird/client"
	"github.com/kbukum/lyrebird/httpclient"
	"github.com/kbukum/lyrebird/logger"
	"github.com/kbukum/lyrebird/version"
)

// EnvAPIURL overrides the default API address.
const EnvAPIURL = "LYREBIRD_API_URL"

type appState struct {
	apiURL      string
	sessionPath string
	noProgress  bool
	verbose     bool

	out    io.Writer
	errOut io.Writer
	in     io.Reader
	log    *logger.Logger

	readPassword func(prompt string) (string, error)
	isTerminal   func() bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	app := &appState{
		apiURL:     os.Getenv(EnvAPIURL),
		out:        os.Stdout,
		errOut:     os.Stderr,
		in:         os.Stdin,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stderr.Fd())) },
	}
	app.readPassword = app.promptPassword

	cmd := &cobra.Command{
		Use:           "lyrebird-cli",
		Short:         "Dictate, review and teach Lyrebird your formatting preferences",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Short(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.out = cmd.OutOrStdout()
			app.errOut = cmd.ErrOrStderr()
			app.in = cmd.InOrStdin()
			level := "warn"
			if app.verbose {
				level = "debug"
			}
			app.log = logger.NewWithWriter(&logger.Config{Level: level, Format: logger.FormatConsole}, "cli", app.errOut)
			if app.sessionPath == "" {
				p, err := client.DefaultSessionPath()
				if err != nil {
					return fmt.Errorf("locate session file: %w", err)
				}
				app.sessionPath = p
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&app.apiURL, "api-url", app.apiURL, "Lyrebird API base URL (default "+client.DefaultBaseURL+")")
	cmd.PersistentFlags().StringVar(&app.sessionPath, "session", "", "Session file path")
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", false, "Disable progress indicators")
	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", false, "Enable verbose logs")

	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newDictateCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newPreferencesCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	return cmd
}

// ErrNotLoggedIn is returned by views that need a login.
var ErrNotLoggedIn = errors.New("not logged in; run 'lyrebird-cli login' first")

func (a *appState) session() (*client.Session, error) {
	return client.LoadSession(a.sessionPath)
}

func (a *appState) client(s *client.Session) (*client.Client, error) {
	c, err := client.New(a.apiURL)
	if err != nil {
		return nil, err
	}
	if s != nil && s.Token != "" {
		c = c.WithToken(s.Token)
	}
	return c, nil
}

// authed loads the session and a client carrying its token.
func (a *appState) authed() (*client.Session, *client.Client, error) {
	s, err := a.session()
	if err != nil {
		return nil, nil, err
	}
	if !s.Authenticated() {
		return nil, nil, ErrNotLoggedIn
	}
	c, err := a.client(s)
	if err != nil {
		return nil, nil, err
	}
	return s, c, nil
}

// fail records err on the session for the status view and returns it in a
// readable form. A rejected token logs the session out.
func (a *appState) fail(s *client.Session, action string, err error) error {
	msg := client.ErrorMessage(err)
	if httpclient.IsAuth(err) && s.Authenticated() {
		s.Logout()
		msg = "Session expired or invalid, please log in again"
	}
	s.SetError(msg)
	if saveErr := s.Save(); saveErr != nil {
		a.log.Warn("Could not save session", logger.Fields(logger.FieldError, saveErr.Error()))
	}
	a.log.Debug("Request failed", logger.ErrorFields(action, err))
	return fmt.Errorf("%s: %s", action, msg)
}

func (a *appState) promptPassword(prompt string) (string, error) {
	fmt.Fprint(a.errOut, prompt)
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		return string(pw), err
	}
	line, err := readLine(a.in)
	return line, err
}

func (a *appState) progressEnabled() bool {
	return !a.noProgress && a.isTerminal()
}

func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
