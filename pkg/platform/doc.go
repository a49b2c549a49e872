// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes platform-specific concerns, starting with
// the OS name constants used for runtime.GOOS comparisons.
package platform
