package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"postboard/internal/model"
	"postboard/pkg/logger"
)

// GridContainerID names the card grid on the page.
const GridContainerID = "blogGrid"

const DefaultStagger = 100 * time.Millisecond

var ErrContainerNotFound = errors.New("container not found")

//go:embed templates/*.html
var templatesFS embed.FS

// Container holds the rendered cards of one named region of the page.
type Container struct {
	id    string
	mu    sync.RWMutex
	html  template.HTML
	count int
}

func (c *Container) ID() string {
	return c.id
}

func (c *Container) HTML() template.HTML {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.html
}

// Len is the number of cards currently shown.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

func (c *Container) replace(html template.HTML, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.html = html
	c.count = count
}

type RendererConfig struct {
	// Target is the container Render writes to.
	Target string
	// Containers lists the container ids the page provides.
	Containers []string
	// Stagger is the fade-in delay between consecutive cards.
	Stagger time.Duration
}

type Renderer struct {
	tmpl       *template.Template
	target     string
	containers map[string]*Container
}

func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if cfg.Stagger < 0 {
		cfg.Stagger = 0
	}
	stagger := cfg.Stagger

	tmpl, err := template.New("").
		Funcs(template.FuncMap{
			"delay": func(i int) string {
				return fmt.Sprintf("%dms", (time.Duration(i) * stagger).Milliseconds())
			},
		}).
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := &Renderer{
		tmpl:       tmpl,
		target:     cfg.Target,
		containers: make(map[string]*Container, len(cfg.Containers)),
	}
	for _, id := range cfg.Containers {
		r.containers[id] = &Container{id: id}
	}
	return r, nil
}

func (r *Renderer) Container(id string) (*Container, bool) {
	c, ok := r.containers[id]
	return c, ok
}

// Render writes posts into the target container.
func (r *Renderer) Render(ctx context.Context, posts []model.Post) error {
	return r.RenderInto(ctx, r.target, posts)
}

// RenderInto replaces the content of container id with one card per post.
func (r *Renderer) RenderInto(ctx context.Context, id string, posts []model.Post) error {
	c, ok := r.containers[id]
	if !ok {
		logger.FromContext(ctx).Error("render target missing", "container", id)
		return fmt.Errorf("%w: %q", ErrContainerNotFound, id)
	}

	html, err := r.Fragment(ctx, posts)
	if err != nil {
		return err
	}
	c.replace(html, len(posts))
	logger.FromContext(ctx).Debug("container rendered", "container", id, "cards", len(posts))
	return nil
}

// Fragment renders the cards without storing them anywhere.
func (r *Renderer) Fragment(_ context.Context, posts []model.Post) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "cards", posts); err != nil {
		return "", fmt.Errorf("render cards: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

type PageData struct {
	Title       string
	ContainerID string
	Grid        template.HTML
	SearchInput bool
	Query       string
	Sort        string
	Order       string
}

func (r *Renderer) WritePage(w io.Writer, data PageData) error {
	if err := r.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
