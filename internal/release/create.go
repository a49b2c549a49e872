// SPDX-License-Identifier: MPL-2.0

package release

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bumpwise-cli/internal/intent"
	"bumpwise-cli/internal/verify"
	"bumpwise-cli/internal/workspace"
)

// CreateIntent renders a new intent document into the workspace's intents
// directory and returns its path. Every declared artifact must be an
// in-scope module, and at least one declaration is required, the same rules
// the parser enforces on read.
func CreateIntent(w *workspace.Workspace, decls []intent.Declaration, body, filename string) (string, error) {
	if len(decls) == 0 {
		return "", &intent.FormatError{Path: filename, Reason: "an intent document must declare at least one artifact"}
	}

	g, err := w.Graph()
	if err != nil {
		return "", err
	}
	doc := &intent.Document{Declarations: decls, Body: body}
	if err := verify.Verify(intent.Aggregate([]*intent.Document{doc}), g, verify.PolicyNone, false); err != nil {
		return "", err
	}

	if filename == "" {
		filename = time.Now().Format("20060102-150405") + "-bump.md"
	}
	if filepath.Ext(filename) != ".md" {
		filename += ".md"
	}

	dir := w.IntentsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create intents directory: %w", err)
	}
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("intent file %s already exists", path)
	}

	rendered := intent.Render(doc, w.Manifest.Workspace.DefaultGroup)
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write intent file: %w", err)
	}
	return path, nil
}
