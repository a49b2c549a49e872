// SPDX-License-Identifier: MPL-2.0

package release

import (
	"bumpwise-cli/internal/intent"
	"bumpwise-cli/internal/verify"
	"bumpwise-cli/internal/workspace"
)

// VerifyOptions carries per-run overrides of the manifest's verify section.
// Nil fields fall back to the manifest.
type VerifyOptions struct {
	Policy          *verify.Policy
	ConsistentBumps *bool
}

// Verify runs the verification engine over the workspace's current intent
// set. It is read-only and independent of the write path.
func Verify(w *workspace.Workspace, opts VerifyOptions) error {
	g, err := w.Graph()
	if err != nil {
		return err
	}
	docs, err := intent.LoadDir(w.IntentsDir(), w.Manifest.Workspace.DefaultGroup)
	if err != nil {
		return err
	}
	agg := intent.Aggregate(docs)

	policy, err := verify.ParsePolicy(w.Manifest.Verify.Policy)
	if err != nil {
		return err
	}
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	consistent := w.Manifest.Verify.ConsistentBumps
	if opts.ConsistentBumps != nil {
		consistent = *opts.ConsistentBumps
	}

	return verify.Verify(agg, g, policy, consistent)
}
