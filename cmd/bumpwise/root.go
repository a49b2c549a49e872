// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"bumpwise-cli/internal/config"
	"bumpwise-cli/internal/issue"
	"bumpwise-cli/internal/workspace"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// workspaceDir is the workspace root holding bumpwise.toml
	workspaceDir string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "bumpwise",
		Short: "Version bumps and changelogs for multi-module workspaces",
		Long: TitleStyle.Render("bumpwise") + SubtitleStyle.Render(" - version bumps and changelogs for multi-module workspaces") + `

bumpwise resolves pending version-bump intents against the workspace's
dependency graph, rewrites every literal version reference, and merges a
grouped changelog section per released module. Modules are described by
'module.yaml' descriptors; pending intents live as Markdown documents
under the workspace's intents directory.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Describe your modules in bumpwise.toml and module.yaml files
  2. Record a pending bump: bumpwise create -a mymodule=minor "Added X."
  3. Release everything at once: bumpwise update

` + SubtitleStyle.Render("Examples:") + `
  bumpwise create -a core=minor "Added the frobnicate endpoint."
  bumpwise verify --policy dependents
  bumpwise preview
  bumpwise update --dry-run
  bumpwise update --backup
  bumpwise config show`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/bumpwise/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "C", ".", "workspace root containing bumpwise.toml")

	// Add subcommands
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			renderServiceError(os.Stderr, svcErr)
		}
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// loadWorkspace opens the workspace named by the --workspace flag.
func loadWorkspace() (*workspace.Workspace, error) {
	w, err := workspace.Load(workspaceDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newServiceError(err, issue.ManifestNotFoundId, "")
		}
		return nil, wrapServiceError(err)
	}
	return w, nil
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
