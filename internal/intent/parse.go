// SPDX-License-Identifier: MPL-2.0

package intent

import (
	"fmt"
	"strings"

	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"

	"gopkg.in/yaml.v3"
)

// delimiter opens and closes a metadata block. It must be the entire line.
const delimiter = "---"

// Parse reads an intent document. The metadata block is recognized only as
// the very first block: the scanner stays eligible to open one until it sees
// the first real content line, and the eligibility is cleared the moment it
// does. Everything between the delimiters is captured verbatim and handed to
// the metadata decoder; everything after the closing delimiter is the
// changelog body.
//
// impliedGroup enables bare-name metadata keys; pass "" to require
// fully-qualified group:name keys.
func Parse(path string, src []byte, impliedGroup string) (*Document, error) {
	lines := strings.Split(string(src), "\n")

	// Scan for the opening delimiter. Leading blank lines do not count as
	// content; anything else closes the metadata window for good.
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || lines[i] != delimiter {
		return nil, &FormatError{Path: path, Reason: "metadata block missing: document must open with a --- delimiter line"}
	}
	i++

	// Capture metadata lines until the closing delimiter or end-of-input.
	var meta []string
	for i < len(lines) && lines[i] != delimiter {
		meta = append(meta, lines[i])
		i++
	}
	if i < len(lines) {
		i++ // consume the closing delimiter
	}

	decls, err := decodeMetadata(path, strings.Join(meta, "\n"), impliedGroup)
	if err != nil {
		return nil, err
	}

	// Body: the rest, minus leading blank lines.
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	body := strings.Join(lines[i:], "\n")

	return &Document{Path: path, Declarations: decls, Body: body}, nil
}

// decodeMetadata turns the captured block into ordered declarations. The
// block is an ordered YAML mapping; decoding through yaml.Node keeps the
// author's key order, which later fixes changelog body ordering.
func decodeMetadata(path, block, impliedGroup string) ([]Declaration, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("metadata is not valid YAML: %v", err)}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &FormatError{Path: path, Reason: "metadata block declares no artifacts"}
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, &FormatError{Path: path, Reason: "metadata must be a mapping of artifact ids to bump kinds"}
	}

	var decls []Declaration
	seen := make(map[artifact.ID]bool)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		id, err := artifact.Parse(key.Value, impliedGroup)
		if err != nil {
			return nil, &FormatError{Path: path, Reason: err.Error()}
		}
		kind, err := semver.ParseBumpKind(value.Value)
		if err != nil {
			return nil, &FormatError{Path: path, Reason: fmt.Sprintf("artifact %s: %v", id, err)}
		}
		if seen[id] {
			return nil, &FormatError{Path: path, Reason: fmt.Sprintf("artifact %s declared twice", id)}
		}
		seen[id] = true
		decls = append(decls, Declaration{ID: id, Kind: kind})
	}
	if len(decls) == 0 {
		return nil, &FormatError{Path: path, Reason: "metadata block declares no artifacts"}
	}
	return decls, nil
}
