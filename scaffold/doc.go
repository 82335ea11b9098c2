// Package scaffold generates projects from templates.
//
// A Template is loaded once with LoadTemplate and may then serve any number
// of Generate calls, including concurrent ones: it is never mutated.
//
//	tmpl, err := scaffold.LoadTemplate(afero.NewOsFs(), "templates/python-package")
//	if err != nil {
//	    return err
//	}
//	result, err := scaffold.Generate(ctx, scaffold.Request{
//	    Template:  tmpl,
//	    Overrides: map[string]string{"project_name": "Acme Tools", "use_docker": "n"},
//	    OutputDir: ".",
//	})
//
// Every fatal problem (bad option values, undefined variables, overlapping
// prune rules, an occupied destination) is reported before anything is
// written. Version control failures are not fatal; they are returned in
// GenerationResult.Warnings.
//
// Concurrent runs writing to the same destination are unsupported. Nothing
// serializes them and the outcome is undefined.
package scaffold
