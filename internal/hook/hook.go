// SPDX-License-Identifier: MPL-2.0

// Package hook runs the optional per-module release script under the mvdan/sh
// interpreter, so hooks behave identically on every platform without an
// external shell. The engine invokes the hook once per updated module and
// consumes no output, only the exit status.
package hook

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"bumpwise-cli/internal/apply"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Env variable names exported to hook scripts.
const (
	EnvModule     = "BUMPWISE_MODULE"
	EnvOldVersion = "BUMPWISE_OLD_VERSION"
	EnvNewVersion = "BUMPWISE_NEW_VERSION"
	EnvDryRun     = "BUMPWISE_DRY_RUN"
	EnvStash      = "BUMPWISE_STASH"
	EnvDate       = "BUMPWISE_DATE"
)

// Runner executes one parsed hook script repeatedly. The script is parsed
// once up front so syntax errors surface before any module runs.
type Runner struct {
	path string
	prog *syntax.File

	// DryRun and Stash are exported to the script verbatim; the hook
	// decides what to do with them.
	DryRun bool
	Stash  bool

	// Stdout and Stderr receive the script's output; nil means the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Load reads and parses the hook script at path.
func Load(path string) (*Runner, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hook script: %w", err)
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(string(src)), path)
	if err != nil {
		return nil, fmt.Errorf("hook script %s: syntax error: %w", path, err)
	}
	return &Runner{path: path, prog: prog}, nil
}

// Run invokes the hook for one module change, from the module's folder.
func (r *Runner) Run(ctx context.Context, dir string, change apply.Change, now time.Time) error {
	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	env := append(os.Environ(),
		EnvModule+"="+change.ID.String(),
		EnvOldVersion+"="+change.Old.String(),
		EnvNewVersion+"="+change.New.String(),
		EnvDryRun+"="+strconv.FormatBool(r.DryRun),
		EnvStash+"="+strconv.FormatBool(r.Stash),
		EnvDate+"="+now.Format("2006-01-02"),
	)

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("hook interpreter: %w", err)
	}

	if err := runner.Run(ctx, r.prog); err != nil {
		return fmt.Errorf("hook %s failed for %s: %w", r.path, change.ID, err)
	}
	return nil
}
