// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for bumpwise.
//
// This package implements the Cobra command hierarchy for the bumpwise CLI:
// the root command, intent creation, the update write path, verification,
// changelog preview, and configuration management.
package cmd
