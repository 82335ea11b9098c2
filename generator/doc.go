// Package generator renders template trees into concrete trees and writes
// them to disk.
//
// # Markup
//
// Names and bodies use Go text/template syntax evaluated over a flat map of
// option values. Two forms matter:
//
//	{{ .project_name }}                         substitution
//	{{- if eq .license "MIT" }}...{{- end }}    conditional span
//
// Flags are booleans, so {{ if .use_docker }} tests them directly. Every key
// a template references, in any branch, must exist in the data; otherwise
// rendering fails with an UndefinedVariable error naming the key and the
// template path. Text containing no markup is passed through unchanged.
//
// # Transactions
//
// Use transactions to ensure a rendered tree is written atomically:
//
//	tx := generator.NewTransaction(afero.NewOsFs())
//	tx.AddTree(tree, "/path/to/project")
//
//	if err := tx.Commit(); err != nil {
//	    // Everything written so far was rolled back
//	    return err
//	}
package generator
