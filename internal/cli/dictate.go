package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kbukum/lyrebird/client"
	"github.com/kbukum/lyrebird/logger"
)

func newDictateCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "dictate <file>",
		Short: "Upload an audio file and show the formatted transcript",
		Long:  "Upload an mp3, wav, ogg or mp4 recording. The raw and formatted transcripts are stored in the session for 'edit'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, c, err := a.authed()
			if err != nil {
				return err
			}
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read audio: %w", err)
			}
			a.log.Debug("Uploading audio", logger.Fields(
				"file", filepath.Base(path),
				"bytes", len(data),
				"content_type", client.ContentType(path, data),
			))

			s.ResetDictation()
			progress, done := a.uploadProgress(int64(len(data)))
			d, err := c.CreateDictation(contextOf(cmd), path, data, progress)
			done()
			if err != nil {
				return a.fail(s, "dictate", err)
			}

			s.SetTranscription(d)
			if err := s.Save(); err != nil {
				return err
			}
			printDictation(a.out, d)
			return nil
		},
	}
}

// uploadProgress returns a byte counter for the upload and a func that
// clears it. Both are no-ops when progress is disabled.
func (a *appState) uploadProgress(size int64) (io.Writer, func()) {
	if !a.progressEnabled() {
		return nil, func() {}
	}
	bar := progressbar.NewOptions64(
		size,
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return bar, func() { _ = bar.Finish() }
}

func printDictation(w io.Writer, d *client.Dictation) {
	fmt.Fprintf(w, "Dictation %s\n\n", d.ID)
	fmt.Fprintln(w, "Transcript:")
	fmt.Fprintln(w, indent(d.Text))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Formatted:")
	fmt.Fprintln(w, indent(d.FormattedText))
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
