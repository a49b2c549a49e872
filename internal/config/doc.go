// SPDX-License-Identifier: MPL-2.0

// Package config handles per-user configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/bumpwise/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/bumpwise/config.cue on macOS, %APPDATA%\bumpwise\config.cue
// on Windows). The package provides type-safe access to user preferences that apply across
// workspaces: default backup behavior, intent stashing, and UI settings. Workspace-level
// settings live in bumpwise.toml and are handled by the workspace package.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
