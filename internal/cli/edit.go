package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newEditCmd(a *appState) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Submit your revision of the last formatted transcript",
		Long:  "Reads the edited transcript from --file, or from stdin when no file is given, and sends it so Lyrebird can learn from the changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, c, err := a.authed()
			if err != nil {
				return err
			}
			if s.FormattedTranscript == "" {
				return errors.New("no dictation in the session; run 'lyrebird-cli dictate <file>' first")
			}

			edited, err := a.readEdited(file)
			if err != nil {
				return err
			}
			if edited == "" {
				return errors.New("edited transcript is empty")
			}
			if edited == strings.TrimSpace(s.FormattedTranscript) {
				return errors.New("edited transcript has no changes")
			}

			ctx := contextOf(cmd)
			res, err := c.SubmitEdit(ctx, s.FormattedTranscript, edited)
			if err != nil {
				return a.fail(s, "edit", err)
			}
			s.SetEdited(edited)
			s.ClearError()

			if res.ID != nil {
				fmt.Fprintf(a.out, "Learned a new preference: %s\n", res.Rules)
			} else {
				fmt.Fprintln(a.out, "Edit saved. No new preference this time.")
			}
			if rules, err := c.Preferences(ctx); err == nil {
				s.SetPreferences(rules)
			}
			return s.Save()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File holding the edited transcript")
	return cmd
}

func (a *appState) readEdited(file string) (string, error) {
	var r io.Reader = a.in
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("open edited transcript: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read edited transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
