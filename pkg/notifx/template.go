package notifx

import (
	"bytes"
	"context"
	"html/template"
	"path"
	"strings"
	"sync"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx"
)

// TemplateRegistry stores and renders named html/templates.
type TemplateRegistry struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]*template.Template),
	}
}

// Register parses and stores a template by name, replacing any previous one.
func (r *TemplateRegistry) Register(name, tmplString string) error {
	t, err := template.New(name).Option("missingkey=error").Parse(tmplString)
	if err != nil {
		return ErrRegistry.NewWithCause(CodeTemplateParse, err).WithDetail("template", name)
	}

	r.mu.Lock()
	r.templates[name] = t
	r.mu.Unlock()
	return nil
}

func (r *TemplateRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// Load registers every *.html file directly inside dir, named after the file
// without its extension. It returns the names it registered.
func (r *TemplateRegistry) Load(ctx context.Context, files fsx.FileReader, dir string) ([]string, error) {
	infos, err := files.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, info := range infos {
		if info.IsDir || path.Ext(info.Name) != ".html" {
			continue
		}
		data, err := files.ReadFile(ctx, path.Join(dir, info.Name))
		if err != nil {
			return names, err
		}
		name := strings.TrimSuffix(info.Name, ".html")
		if err := r.Register(name, string(data)); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Render executes a named template with the given data.
func (r *TemplateRegistry) Render(name string, data any) (string, error) {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return "", ErrRegistry.New(CodeTemplateNotFound).WithDetail("template", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", ErrRegistry.NewWithCause(CodeTemplateRender, err).WithDetail("template", name)
	}
	return buf.String(), nil
}
