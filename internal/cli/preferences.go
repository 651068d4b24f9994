package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPreferencesCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:     "preferences",
		Aliases: []string{"prefs"},
		Short:   "List the formatting preferences Lyrebird has learned",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, c, err := a.authed()
			if err != nil {
				return err
			}
			rules, err := c.Preferences(contextOf(cmd))
			if err != nil {
				return a.fail(s, "preferences", err)
			}
			s.SetPreferences(rules)
			if err := s.Save(); err != nil {
				return err
			}
			if len(rules) == 0 {
				fmt.Fprintln(a.out, "No preferences learned yet.")
				return nil
			}
			for i, r := range rules {
				fmt.Fprintf(a.out, "%d. %s\n", i+1, r)
			}
			return nil
		},
	}
}

func newHistoryCmd(a *appState) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your recent dictations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, c, err := a.authed()
			if err != nil {
				return err
			}
			items, err := c.Dictations(contextOf(cmd))
			if err != nil {
				return a.fail(s, "history", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(a.out, "No dictations yet.")
				return nil
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			for _, d := range items {
				fmt.Fprintf(a.out, "%s  %s\n", d.ID, firstLine(d.FormattedText))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum entries to show (0 for all)")
	return cmd
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	const width = 72
	if r := []rune(line); len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return line
}

func newStatusCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session state",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			if !s.Authenticated() {
				fmt.Fprintf(a.out, "Not logged in (page: %s, mode: %s)\n", s.Page, s.AuthMode)
			} else {
				fmt.Fprintf(a.out, "Logged in (page: %s)\n", s.Page)
			}
			if s.DictationID != "" {
				fmt.Fprintf(a.out, "Current dictation: %s\n", s.DictationID)
				fmt.Fprintln(a.out, "Formatted:")
				fmt.Fprintln(a.out, indent(s.FormattedTranscript))
				if s.EditedTranscript != s.Transcript {
					fmt.Fprintln(a.out, "Edited:")
					fmt.Fprintln(a.out, indent(s.EditedTranscript))
				}
			}
			fmt.Fprintf(a.out, "Preferences: %d\n", len(s.Preferences))
			if s.ErrorMessage != "" {
				fmt.Fprintf(a.out, "Last error: %s\n", s.ErrorMessage)
			}
			return nil
		},
	}
}
