// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"bumpwise-cli/internal/release"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the changelog sections a run of 'update' would produce",
	Long: `Render the changelog sections a run of 'update' would produce.

Preview shares the entire update code path but never writes: descriptors,
changelog and intent files are left untouched.`,
	Example: `  bumpwise preview
  bumpwise preview --workspace ./services`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd)
	},
}

func runPreview(cmd *cobra.Command) error {
	w, err := loadWorkspace()
	if err != nil {
		return err
	}

	outcome, err := release.Update(cmd.Context(), w, release.Options{
		DryRun: true,
		Logger: log.Default(),
	})
	if err != nil {
		return wrapServiceError(err)
	}

	if len(outcome.Sections) == 0 {
		fmt.Println(SubtitleStyle.Render("Nothing to preview: no pending intents."))
		return nil
	}

	rendered, err := glamour.Render(strings.Join(outcome.Sections, "\n"), "dark")
	if err != nil {
		// Fall back to the raw markdown rather than failing the preview.
		log.Warn("markdown rendering failed", "error", err)
		rendered = strings.Join(outcome.Sections, "\n")
	}
	fmt.Print(rendered)
	return nil
}
