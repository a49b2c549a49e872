// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"bumpwise-cli/internal/release"
	"bumpwise-cli/internal/verify"

	"github.com/spf13/cobra"
)

var (
	verifyPolicy          string
	verifyConsistentBumps bool

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check pending intents against the workspace policy",
		Long: `Check pending intents against the workspace policy.

Verification is read-only. The policy decides which modules must carry a
direct intent:

  none          only reject intents for unknown artifacts
  at_least_one  at least one module must have a direct intent
  dependents    every dependent of a changed module needs its own intent
  all           every module in the workspace needs an intent

With consistent bumps enabled, two intents declaring different kinds for
the same artifact also fail verification.`,
		Example: `  bumpwise verify
  bumpwise verify --policy dependents
  bumpwise verify --policy all --consistent-bumps=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd)
		},
	}
)

func init() {
	verifyCmd.Flags().StringVar(&verifyPolicy, "policy", "", "override the manifest's verify policy")
	verifyCmd.Flags().BoolVar(&verifyConsistentBumps, "consistent-bumps", false, "override the manifest's consistent-bumps check")
}

func runVerify(cmd *cobra.Command) error {
	w, err := loadWorkspace()
	if err != nil {
		return err
	}

	var opts release.VerifyOptions
	if cmd.Flags().Changed("policy") {
		policy, err := verify.ParsePolicy(verifyPolicy)
		if err != nil {
			return err
		}
		opts.Policy = &policy
	}
	if cmd.Flags().Changed("consistent-bumps") {
		opts.ConsistentBumps = &verifyConsistentBumps
	}

	if err := release.Verify(w, opts); err != nil {
		return &ExitError{Code: exitCodeVerifyFailed, Err: wrapServiceError(err)}
	}

	fmt.Println(SuccessStyle.Render("Verification passed."))
	return nil
}
