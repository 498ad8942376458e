package templates

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// Renderer renders small text templates for outbound messages, caching parsed
// templates by name. The same name must always map to the same template text.
type Renderer struct {
	mu    sync.Mutex
	cache map[string]*template.Template
}

// New creates an empty renderer.
func New() *Renderer {
	return &Renderer{cache: make(map[string]*template.Template)}
}

// Render compiles the provided template text with strict missing-key semantics
// and executes it against data.
func (r *Renderer) Render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("templates: template text required")
	}

	t, err := r.lookup(name, tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: execute %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) lookup(name, tmpl string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.cache[name]; ok {
		return t, nil
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("templates: parse %s: %w", name, err)
	}
	r.cache[name] = t
	return t, nil
}
