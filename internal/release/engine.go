// SPDX-License-Identifier: MPL-2.0

// Package release orchestrates one engine invocation: build the artifact
// graph, aggregate intents, propagate bumps, rewrite versions, merge the
// changelog and run hooks, strictly in that order, single-threaded. Every
// computation and in-memory mutation happens before the first byte is
// flushed, so a failure never leaves a partially updated workspace; dry-run
// shares the entire code path and only suppresses the flush.
package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bumpwise-cli/internal/apply"
	"bumpwise-cli/internal/changelog"
	"bumpwise-cli/internal/graph"
	"bumpwise-cli/internal/hook"
	"bumpwise-cli/internal/intent"
	"bumpwise-cli/internal/resolve"
	"bumpwise-cli/internal/verify"
	"bumpwise-cli/internal/workspace"
	"bumpwise-cli/pkg/semver"

	"github.com/charmbracelet/log"
)

// Options configures one update run.
type Options struct {
	// DryRun computes everything but writes nothing.
	DryRun bool
	// Backup preserves each descriptor before write-back.
	Backup bool
	// Stash keeps consumed intent files on disk instead of deleting them.
	// The flag is also exported to hook scripts.
	Stash bool
	// GlobalBump forces at least this bump on every module in scope.
	GlobalBump semver.BumpKind
	// Now overrides the run timestamp; zero means time.Now().
	Now time.Time
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Outcome reports what an update run did (or, in dry-run, would do).
type Outcome struct {
	// Changes lists the bumped modules in dependency order.
	Changes []apply.Change
	// Changelog is the fully merged changelog text.
	Changelog string
	// Sections holds the freshly rendered section per change, in change
	// order; preview rendering consumes these.
	Sections []string
	// ConsumedIntents are the intent files deleted after a real run.
	ConsumedIntents []string
}

// Update runs the full write path for a workspace.
func Update(ctx context.Context, w *workspace.Workspace, opts Options) (*Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	g, err := w.Graph()
	if err != nil {
		return nil, err
	}
	logger.Debug("artifact graph built", "modules", g.Len())

	docs, err := intent.LoadDir(w.IntentsDir(), w.Manifest.Workspace.DefaultGroup)
	if err != nil {
		return nil, err
	}
	agg := intent.Aggregate(docs)
	logger.Debug("intents aggregated", "documents", len(docs), "artifacts", len(agg.Artifacts()))

	// Declarations for unknown artifacts abort before any computation.
	if err := verify.Verify(agg, g, verify.PolicyNone, false); err != nil {
		return nil, err
	}

	res := resolve.Resolve(agg, g)

	applyOpts, err := applyOptions(w, opts)
	if err != nil {
		return nil, err
	}

	// Parse the hook before mutating anything so a broken script aborts
	// the run while it is still side-effect free.
	var hookRunner *hook.Runner
	if script := w.Manifest.Hook.Script; script != "" {
		if !filepath.IsAbs(script) {
			script = filepath.Join(w.Root, script)
		}
		hookRunner, err = hook.Load(script)
		if err != nil {
			return nil, err
		}
		hookRunner.DryRun = opts.DryRun
		hookRunner.Stash = opts.Stash
	}

	result, err := apply.Apply(g, res, applyOpts, logger)
	if err != nil {
		return nil, err
	}
	if len(result.Changes) == 0 {
		logger.Info("no module requires a version bump")
		return &Outcome{}, nil
	}

	merged, sections, err := mergeChangelog(w, g, agg, res, result.Changes, now)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Changes:   result.Changes,
		Changelog: merged,
		Sections:  sections,
	}
	for _, doc := range agg.Docs {
		outcome.ConsumedIntents = append(outcome.ConsumedIntents, doc.Path)
	}

	if opts.DryRun {
		logger.Info("dry run: skipping flush", "modules", len(result.Changes))
	} else {
		toRemove := outcome.ConsumedIntents
		if opts.Stash {
			toRemove = nil
		}
		if err := flush(w, result.Dirty, merged, toRemove, opts.Backup, logger); err != nil {
			return nil, err
		}
	}

	if hookRunner != nil {
		for _, change := range result.Changes {
			node, _ := g.Node(change.ID)
			dir := moduleDir(w, node)
			if err := hookRunner.Run(ctx, dir, change, now); err != nil {
				return nil, err
			}
		}
	}

	return outcome, nil
}

// applyOptions translates manifest settings plus per-run flags into apply
// options.
func applyOptions(w *workspace.Workspace, opts Options) (apply.Options, error) {
	scope, err := apply.ParseScope(w.Manifest.Versioning.Scope)
	if err != nil {
		return apply.Options{}, err
	}
	out := apply.Options{
		Scope:          scope,
		SharedProperty: w.Manifest.Versioning.SharedProperty,
		GlobalBump:     opts.GlobalBump,
	}
	if out.GlobalBump == semver.None && w.Manifest.Versioning.GlobalBump != "" {
		kind, err := semver.ParseBumpKind(w.Manifest.Versioning.GlobalBump)
		if err != nil {
			return apply.Options{}, err
		}
		out.GlobalBump = kind
	}
	if out.Scope == apply.ScopeSharedProperty && out.SharedProperty == "" {
		return apply.Options{}, fmt.Errorf("versioning.shared_property must be set for scope shared_property")
	}
	return out, nil
}

// mergeChangelog renders one section per change and splices them, newest
// block first, into the project changelog.
func mergeChangelog(w *workspace.Workspace, g *graph.Graph, agg *intent.Aggregated, res resolve.Result, changes []apply.Change, now time.Time) (string, []string, error) {
	format := changelogFormat(w)

	existing := ""
	if data, err := os.ReadFile(w.ChangelogPath()); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return "", nil, fmt.Errorf("read changelog: %w", err)
	}

	sections := make([]string, 0, len(changes))
	for _, change := range changes {
		section, err := changelog.Section(format, change.ID, change.New, res[change.ID], agg.DocsFor(change.ID), now)
		if err != nil {
			return "", nil, err
		}
		sections = append(sections, section)
	}

	block := strings.Join(sections, "\n")
	return changelog.Merge(format, existing, block), sections, nil
}

func changelogFormat(w *workspace.Workspace) changelog.Format {
	cf := w.Manifest.ChangelogFormat
	return changelog.Format{
		Title:      w.Manifest.Workspace.ChangelogTitle,
		Heading:    cf.Heading,
		MajorLabel: cf.MajorLabel,
		MinorLabel: cf.MinorLabel,
		PatchLabel: cf.PatchLabel,
		OtherLabel: cf.OtherLabel,
	}
}

// flush is the only place the engine writes: mutated descriptors first, then
// the changelog, then intent-file cleanup.
func flush(w *workspace.Workspace, dirty []*graph.Node, merged string, consumed []string, backup bool, logger *log.Logger) error {
	for _, node := range dirty {
		if err := node.Doc.Write(backup); err != nil {
			return err
		}
		logger.Debug("descriptor written", "module", node.ID.String(), "path", node.Doc.Path())
	}
	if err := os.WriteFile(w.ChangelogPath(), []byte(merged), 0o644); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	for _, path := range consumed {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove consumed intent %s: %w", path, err)
		}
		logger.Debug("intent consumed", "path", path)
	}
	return nil
}

func moduleDir(w *workspace.Workspace, node *graph.Node) string {
	if node == nil {
		return w.Root
	}
	return filepath.Join(w.Root, node.Dir)
}
