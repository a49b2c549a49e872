// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is the sentinel error wrapped by CUEPath validation failures.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

// CUEPath is a JSON-path style reference into a CUE document
// (e.g., "ui.color_scheme"). A valid path must be non-empty and not
// whitespace-only.
type CUEPath string

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }

// Validate returns an error if the path is empty or whitespace-only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return fmt.Errorf("%w: must be non-empty", ErrInvalidCUEPath)
	}
	return nil
}
