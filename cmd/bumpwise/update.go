// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"bumpwise-cli/internal/config"
	"bumpwise-cli/internal/release"
	"bumpwise-cli/pkg/semver"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	updateDryRun     bool
	updateBackup     bool
	updateStash      bool
	updateGlobalBump string

	updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Apply pending intents: bump versions and merge the changelog",
		Long: `Apply pending intents: bump versions and merge the changelog.

The update resolves every pending intent against the dependency graph,
raises dependents of bumped modules by at least a patch, rewrites every
literal version reference, and splices one changelog section per released
module. All computation happens before the first write, so a failing run
leaves the workspace untouched.`,
		Example: `  bumpwise update
  bumpwise update --dry-run
  bumpwise update --backup --stash
  bumpwise update --global-bump minor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd)
		},
	}
)

func init() {
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "compute and report everything without writing")
	updateCmd.Flags().BoolVar(&updateBackup, "backup", false, "keep a backup copy of every rewritten file")
	updateCmd.Flags().BoolVar(&updateStash, "stash", false, "keep consumed intent files instead of deleting them")
	updateCmd.Flags().StringVar(&updateGlobalBump, "global-bump", "", "force at least this bump on every module (major|minor|patch)")
}

func runUpdate(cmd *cobra.Command) error {
	w, err := loadWorkspace()
	if err != nil {
		return err
	}

	opts := release.Options{
		DryRun: updateDryRun,
		Backup: updateBackup,
		Stash:  updateStash,
		Logger: log.Default(),
	}

	// User config supplies defaults for flags the user did not pass.
	if cfg, cfgErr := config.Load(); cfgErr == nil && cfg != nil {
		if !cmd.Flags().Changed("backup") {
			opts.Backup = cfg.Backup
		}
		if !cmd.Flags().Changed("stash") {
			opts.Stash = cfg.Stash
		}
	}

	if updateGlobalBump != "" {
		kind, err := semver.ParseBumpKind(updateGlobalBump)
		if err != nil {
			return err
		}
		opts.GlobalBump = kind
	}

	outcome, err := release.Update(cmd.Context(), w, opts)
	if err != nil {
		return wrapServiceError(err)
	}

	if len(outcome.Changes) == 0 {
		fmt.Println(SubtitleStyle.Render("Nothing to do: no pending intents."))
		return nil
	}

	verb := "Updated"
	if updateDryRun {
		verb = "Would update"
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("%s %d module(s):", verb, len(outcome.Changes))))
	for _, change := range outcome.Changes {
		line := fmt.Sprintf("  %s  %s -> %s", change.ID, change.Old, change.New)
		if !change.Direct {
			line += SubtitleStyle.Render("  (dependency bump)")
		}
		fmt.Println(ModuleStyle.Render(line))
	}
	return nil
}
