// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"bumpwise-cli/internal/intent"
	"bumpwise-cli/internal/release"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"

	"github.com/spf13/cobra"
)

var (
	createArtifacts []string
	createFileName  string

	createCmd = &cobra.Command{
		Use:   "create [body...]",
		Short: "Record a pending version-bump intent",
		Long: `Record a pending version-bump intent.

An intent document declares one bump kind per artifact plus a Markdown
body describing the change. The body becomes the changelog entry when the
intent is consumed by 'bumpwise update'.

Artifacts are given as '<name>=<kind>' or '<group>:<name>=<kind>'; bare
names resolve against the workspace's default group.`,
		Example: `  bumpwise create -a core=minor "Added the frobnicate endpoint."
  bumpwise create -a core=major -a app=patch "Reworked the public API."
  bumpwise create -a com.example:lib=patch --file fix-null-deref "Fixed a crash."`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
)

func init() {
	createCmd.Flags().StringArrayVarP(&createArtifacts, "artifact", "a", nil, "artifact and bump kind as '<name>=<kind>' (repeatable)")
	createCmd.Flags().StringVar(&createFileName, "file", "", "intent file name (default is a timestamped name)")
}

func runCreate(args []string) error {
	if len(createArtifacts) == 0 {
		return fmt.Errorf("at least one --artifact is required")
	}

	w, err := loadWorkspace()
	if err != nil {
		return err
	}

	decls, err := parseDeclarations(createArtifacts, w.Manifest.Workspace.DefaultGroup)
	if err != nil {
		return err
	}

	path, err := release.CreateIntent(w, decls, strings.Join(args, " "), createFileName)
	if err != nil {
		return wrapServiceError(err)
	}

	fmt.Println(SuccessStyle.Render("Intent recorded: ") + ModuleStyle.Render(path))
	return nil
}

// parseDeclarations turns '<artifact>=<kind>' flag values into intent
// declarations, resolving bare names against the implied group.
func parseDeclarations(specs []string, impliedGroup string) ([]intent.Declaration, error) {
	decls := make([]intent.Declaration, 0, len(specs))
	for _, spec := range specs {
		key, kindStr, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid artifact spec %q: expected '<name>=<kind>'", spec)
		}
		id, err := artifact.Parse(strings.TrimSpace(key), impliedGroup)
		if err != nil {
			return nil, err
		}
		kind, err := semver.ParseBumpKind(strings.TrimSpace(kindStr))
		if err != nil {
			return nil, err
		}
		decls = append(decls, intent.Declaration{ID: id, Kind: kind})
	}
	return decls, nil
}
