// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	DescriptorParseErrorId
	IntentParseErrorId
	UnknownArtifactId
	DependencyCycleId
	VerificationFailedId
	InconsistentBumpsId
	ChangelogTemplateErrorId
	HookFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# No workspace manifest found!

We searched for a bumpwise.toml but couldn't find one in the current directory.

## Things you can try:
- Run bumpwise from the workspace root (the directory holding bumpwise.toml)
- Create a manifest for your workspace:
~~~toml
[workspace]
default_group = "com.example"
modules = ["core", "app"]

[versioning]
scope = "every_module"
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse bumpwise.toml!

Your workspace manifest contains syntax errors or invalid settings.

## Common issues:
- Invalid TOML syntax (unbalanced quotes or brackets)
- Unknown scope: must be every_module, shared_property or leaf_modules
- Unknown verify policy: must be none, at_least_one, dependents or all
- An empty workspace.modules list

## Things you can try:
- Check the error message above for the offending key
- Run with verbose mode for more details:
~~~
$ bumpwise --verbose verify
~~~`,
	}

	descriptorParseErrorIssue = &Issue{
		id: DescriptorParseErrorId,
		mdMsg: `
# Failed to parse a module descriptor!

A module.yaml under the workspace could not be read, or it is missing a
required field.

## Every descriptor needs at least:
~~~yaml
group: com.example
name: core
version: 1.2.3
~~~

## Things you can try:
- Check the named file for YAML syntax errors
- Make sure the version is a literal like 1.2.3, not a placeholder,
  unless another module resolves it
- Verify nested modules listed under 'modules:' actually exist on disk`,
	}

	intentParseErrorIssue = &Issue{
		id: IntentParseErrorId,
		mdMsg: `
# Failed to parse an intent document!

An intent file under .bumpwise/ does not follow the expected layout.

## An intent document starts with a metadata block:
~~~markdown
---
core: minor
app: patch
---

Added the frobnicate endpoint.
~~~

## Common issues:
- Missing or unclosed ` + "`---`" + ` delimiters
- An empty metadata block (at least one artifact is required)
- The same artifact declared twice
- An unknown bump kind (use major, minor or patch)`,
	}

	unknownArtifactIssue = &Issue{
		id: UnknownArtifactId,
		mdMsg: `
# Intent names an unknown artifact!

An intent document declares a bump for an artifact that is not part of
this workspace, so the update was aborted before touching any file.

## Things you can try:
- List the workspace modules:
~~~
$ bumpwise verify --policy none
~~~

- Check for typos in the artifact key (use group:name, or a bare name
  for the workspace group)
- Add the missing module to workspace.modules in bumpwise.toml`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The modules in this workspace depend on each other in a loop, so bump
propagation has no valid order.

## Things you can try:
- Review the dependencies sections of the named descriptors
- Break the cycle by extracting the shared code into its own module
- Replace one direction of the cycle with a literal version pin`,
	}

	verificationFailedIssue = &Issue{
		id: VerificationFailedId,
		mdMsg: `
# Verification failed!

The pending intents do not satisfy the configured policy.

## Policies:
- **at_least_one**: at least one module must have a direct intent
- **dependents**: every dependent of a changed module needs its own intent
- **all**: every module in the workspace needs an intent

## Things you can try:
- Add the missing intents:
~~~
$ bumpwise create --artifact app --kind patch "Picked up core changes."
~~~

- Relax the policy for this run:
~~~
$ bumpwise verify --policy at_least_one
~~~`,
	}

	inconsistentBumpsIssue = &Issue{
		id: InconsistentBumpsId,
		mdMsg: `
# Inconsistent bump kinds!

Two intent documents declare different bump kinds for the same artifact,
and consistent_bumps is enabled for this workspace.

## Things you can try:
- Edit the named intent files so they agree on one kind
- Or disable the check for this run:
~~~
$ bumpwise verify --consistent-bumps=false
~~~`,
	}

	changelogTemplateErrorIssue = &Issue{
		id: ChangelogTemplateErrorId,
		mdMsg: `
# Invalid changelog heading template!

The changelog_format.heading template contains a placeholder bumpwise
does not recognize.

## Supported placeholders:
- ` + "`{version}`" + `: the new version of the module
- ` + "`{module}`" + `: the artifact id
- ` + "`{date#2006-01-02}`" + `: the release date with a Go reference layout

## Example:
~~~toml
[changelog_format]
heading = "{version} - {date#2006-01-02}"
~~~`,
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# Post-update hook failed!

The configured hook script exited with an error after the version files
were written.

## Things you can try:
- Run with verbose mode to see the script output:
~~~
$ bumpwise --verbose update
~~~

- Test the script by hand with the same environment:
~~~
$ BUMPWISE_MODULE=com.example:core \
  BUMPWISE_NEW_VERSION=1.3.0 sh .bumpwise/hook.sh
~~~

- Note the descriptors and changelog were already updated; rerunning
  the hook is safe`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the bumpwise configuration file.

## Configuration file locations:
- Linux: ~/.config/bumpwise/config.cue
- macOS: ~/Library/Application Support/bumpwise/config.cue
- Windows: %APPDATA%\bumpwise\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/bumpwise/config.cue
~~~

## Example configuration:
~~~cue
backup: false

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():       manifestNotFoundIssue,
		manifestParseErrorIssue.Id():     manifestParseErrorIssue,
		descriptorParseErrorIssue.Id():   descriptorParseErrorIssue,
		intentParseErrorIssue.Id():       intentParseErrorIssue,
		unknownArtifactIssue.Id():        unknownArtifactIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		verificationFailedIssue.Id():     verificationFailedIssue,
		inconsistentBumpsIssue.Id():      inconsistentBumpsIssue,
		changelogTemplateErrorIssue.Id(): changelogTemplateErrorIssue,
		hookFailedIssue.Id():             hookFailedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
