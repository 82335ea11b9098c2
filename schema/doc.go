// Package schema loads and validates template manifests.
//
// A manifest sits at the root of a template directory as hatch.yml,
// hatch.yaml or hatch.toml. It declares the options a template accepts and
// the prune rules that remove paths belonging to declined features:
//
//	name: python-package
//	options:
//	  - key: project_name
//	    default: My Package
//	  - key: project_slug
//	    derive: "{{ slugify .project_name }}"
//	  - key: command_line_interface
//	    choices: [typer, click, none]
//	  - key: use_docker
//	    choices: [y, n]
//	    summary: Docker
//	prune:
//	  - path: Dockerfile
//	    when: use_docker
//	  - path: src/{{ .project_slug }}/cli.py
//	    when: command_line_interface != none
//
// An option with choices is a Choice; its first choice is its default. A
// Choice whose choices are a yes/no pair is a flag and resolves to a boolean.
// An option with derive is computed from other options unless overridden.
//
// Everything that can be checked without a user's answers is checked when
// the manifest is loaded: structure, references to undeclared keys,
// derivation cycles and overlapping prune rules.
package schema
