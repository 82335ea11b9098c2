package generator

import (
	"bytes"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"sync"
	"text/template"

	"github.com/simonhull/hatch/errors"
)

// DefaultFileMode is used for rendered files whose template carries no mode.
const DefaultFileMode fs.FileMode = 0644

// Renderer parses and executes template markup with caching.
// It is safe for concurrent use; a single Renderer can serve every run.
type Renderer struct {
	funcMap template.FuncMap
	cache   map[string]*template.Template
	mu      sync.RWMutex // Protect cache for concurrent access
}

// NewRenderer creates a renderer with built-in helper functions
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: defaultFuncMap(),
		cache:   make(map[string]*template.Template),
	}
}

// Parse parses markup, reusing a cached parse of identical text.
// name is used in error messages only.
func (r *Renderer) Parse(name, text string) (*template.Template, error) {
	cacheKey := r.getCacheKey(name, text)

	r.mu.RLock()
	if tmpl, ok := r.cache[cacheKey]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	tmpl, err := template.New(name).Funcs(r.funcMap).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateSyntax, "failed to parse template '%s'", name).
			WithDetail(errors.DetailPath, name)
	}

	r.mu.Lock()
	r.cache[cacheKey] = tmpl
	r.mu.Unlock()

	return tmpl, nil
}

// RenderString resolves markup in text against data. Every referenced key
// must be present in data; otherwise the result is an UndefinedVariable
// error naming the key and name. Text without markup is returned unchanged.
func (r *Renderer) RenderString(name, text string, data map[string]any) (string, error) {
	if !HasMarkup(text) {
		return text, nil
	}

	tmpl, err := r.Parse(name, text)
	if err != nil {
		return "", err
	}

	for _, key := range References(tmpl) {
		if _, ok := data[key]; !ok {
			return "", undefinedVariable(key, name)
		}
	}

	return r.executeTemplate(tmpl, name, data)
}

// ClearCache clears the template cache (useful for testing)
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*template.Template)
}

// getCacheKey generates a cache key for a template
func (r *Renderer) getCacheKey(name, text string) string {
	return name + "\x00" + text
}

// missingKeyPattern matches text/template's error for missingkey=error.
var missingKeyPattern = regexp.MustCompile(`map has no entry for key "([^"]+)"`)

// executeTemplate executes a parsed template with the given data
func (r *Renderer) executeTemplate(tmpl *template.Template, name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if m := missingKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			return "", undefinedVariable(m[1], name)
		}
		return "", errors.Wrapf(err, errors.ErrTemplateSyntax, "failed to render template '%s'", name).
			WithDetail(errors.DetailPath, name)
	}
	return buf.String(), nil
}

func undefinedVariable(key, name string) *errors.Error {
	return errors.Newf(errors.ErrUndefinedVariable, "undefined variable %q in %s", key, name).
		WithDetail(errors.DetailKey, key).
		WithDetail(errors.DetailPath, name)
}

// Render transforms a template tree into a rendered tree. The root's own
// name is not rendered; its children become the children of the result.
// Traversal is pre-order and keeps template order. Directories whose name
// renders empty, or whose subtree renders to nothing, are still emitted.
func (r *Renderer) Render(root *TemplateNode, data map[string]any) (*RenderedNode, error) {
	if root == nil || root.Kind != KindDir {
		return nil, errors.New(errors.ErrInvalidPath, "template root must be a directory")
	}

	out := &RenderedNode{Kind: KindDir}
	for _, child := range root.Children {
		rendered, err := r.renderNode(child, "", data)
		if err != nil {
			return nil, err
		}
		out.Children = append(out.Children, rendered)
	}
	return out, nil
}

func (r *Renderer) renderNode(node *TemplateNode, parent string, data map[string]any) (*RenderedNode, error) {
	// Template paths identify the offending node in diagnostics
	tmplPath := path.Join(parent, node.NameExpr)

	name, err := r.RenderString(tmplPath, node.NameExpr, data)
	if err != nil {
		return nil, err
	}
	if err := validateName(name, node.Kind, tmplPath); err != nil {
		return nil, err
	}

	if node.Kind == KindFile {
		content := []byte(node.BodyExpr)
		if !node.Verbatim {
			body, err := r.RenderString(tmplPath, node.BodyExpr, data)
			if err != nil {
				return nil, err
			}
			content = []byte(body)
		}
		mode := node.Mode
		if mode == 0 {
			mode = DefaultFileMode
		}
		return &RenderedNode{Kind: KindFile, Name: name, Content: content, Mode: mode}, nil
	}

	dir := &RenderedNode{Kind: KindDir, Name: name, Children: []*RenderedNode{}}
	for _, child := range node.Children {
		rendered, err := r.renderNode(child, tmplPath, data)
		if err != nil {
			return nil, err
		}
		dir.Children = append(dir.Children, rendered)
	}
	return dir, nil
}

// validateName rejects rendered names that would escape their parent.
// Empty directory names are allowed; the pruner drops those directories.
func validateName(name string, kind NodeKind, tmplPath string) error {
	invalid := func(reason string) error {
		return errors.Newf(errors.ErrInvalidPath, "%s name %q rendered from %s %s", kind, name, tmplPath, reason).
			WithDetail(errors.DetailPath, tmplPath)
	}

	switch {
	case name == "" && kind == KindFile:
		return invalid("is empty")
	case name == "." || name == "..":
		return invalid("is a relative reference")
	case strings.ContainsAny(name, `/\`):
		return invalid("contains a path separator")
	case strings.ContainsRune(name, 0):
		return invalid("contains a NUL byte")
	}
	return nil
}

// defaultFuncMap returns the default template function map
func defaultFuncMap() template.FuncMap {
	return template.FuncMap{
		// Identifiers
		"slugify": Slugify, // My Package → my_package
		"kebab":   Kebab,   // My Package → my-package

		// Case conversion
		"pascalCase": PascalCase, // user_name → UserName
		"snakeCase":  SnakeCase,  // UserName → user_name

		// String manipulation
		"quote":     Quote, // test → "test"
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     Title,
		"trim":      strings.TrimSpace,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,

		// Comparison; flags compare equal to their yes/no spellings
		"eq": flagEq,
		"ne": flagNe,

		// Utilities
		"default": Default,
	}
}
