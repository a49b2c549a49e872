// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"bumpwise-cli/internal/changelog"
	"bumpwise-cli/internal/dag"
	"bumpwise-cli/internal/intent"
	"bumpwise-cli/internal/issue"
	"bumpwise-cli/internal/verify"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyIssue maps typed engine errors to their issue catalog entries so
// failures get a rendered help section. Zero means no catalog entry applies.
func classifyIssue(err error) issue.Id {
	var (
		formatErr  *intent.FormatError
		cycleErr   *dag.CycleError
		scopeErr   *verify.ScopeError
		notInScope *verify.NotInScopeError
		inconsErr  *verify.InconsistencyError
		headingErr *changelog.ConfigurationError
	)
	switch {
	case errors.As(err, &formatErr):
		return issue.IntentParseErrorId
	case errors.As(err, &cycleErr):
		return issue.DependencyCycleId
	case errors.As(err, &notInScope):
		return issue.UnknownArtifactId
	case errors.As(err, &inconsErr):
		return issue.InconsistentBumpsId
	case errors.As(err, &scopeErr):
		return issue.VerificationFailedId
	case errors.As(err, &headingErr):
		return issue.ChangelogTemplateErrorId
	default:
		return 0
	}
}

// wrapServiceError classifies err and, when a catalog entry matches, wraps
// it so the CLI layer renders the help text. Unclassified errors pass
// through unchanged.
func wrapServiceError(err error) error {
	if err == nil {
		return nil
	}
	id := classifyIssue(err)
	if id == 0 {
		return err
	}
	return newServiceError(err, id, "")
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}
