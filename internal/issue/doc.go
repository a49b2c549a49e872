// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly
// messages.
//
// Engine packages return plain typed errors (format, graph, verification);
// the command layer wraps them here so every failure reaches the terminal
// with the operation, the resource involved and remediation steps. The
// package also carries a small registry of Markdown help texts rendered via
// glamour for the most common failure classes.
package issue
