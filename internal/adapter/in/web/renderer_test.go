package web

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"postboard/internal/model"

	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, target string) *Renderer {
	t.Helper()

	r, err := NewRenderer(RendererConfig{
		Target:     target,
		Containers: []string{GridContainerID},
		Stagger:    DefaultStagger,
	})
	require.NoError(t, err)
	return r
}

func TestRenderer_RenderInto(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, GridContainerID)
	seed := model.DefaultSeed()

	require.NoError(t, r.Render(context.Background(), seed))

	c, ok := r.Container(GridContainerID)
	require.True(t, ok)
	require.Equal(t, GridContainerID, c.ID())
	require.Equal(t, len(seed), c.Len())

	html := string(c.HTML())
	require.Equal(t, len(seed), strings.Count(html, `class="blog-card"`))

	last := -1
	for _, p := range seed {
		i := strings.Index(html, `data-slug="`+p.Slug+`"`)
		require.Greater(t, i, last, p.Slug)
		last = i
	}

	require.Contains(t, html, `animation-delay: 0ms`)
	require.Contains(t, html, `animation-delay: 400ms`)
	require.Contains(t, html, `href="/posts/1/open"`)
	require.Contains(t, html, `target="_blank"`)
	require.Contains(t, html, `loading="lazy"`)
}

func TestRenderer_RenderInto_ClearsPrevious(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, GridContainerID)
	require.NoError(t, r.Render(context.Background(), model.DefaultSeed()))
	require.NoError(t, r.Render(context.Background(), model.DefaultSeed()[:1]))

	c, _ := r.Container(GridContainerID)
	require.Equal(t, 1, c.Len())
	require.Equal(t, 1, strings.Count(string(c.HTML()), `class="blog-card"`))

	require.NoError(t, r.Render(context.Background(), nil))
	require.Zero(t, c.Len())
	require.NotContains(t, string(c.HTML()), "blog-card")
}

func TestRenderer_MissingContainer(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, "nowhere")

	err := r.Render(context.Background(), model.DefaultSeed())
	require.ErrorIs(t, err, ErrContainerNotFound)

	c, _ := r.Container(GridContainerID)
	require.Zero(t, c.Len())
}

func TestRenderer_Fragment_Escapes(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, GridContainerID)
	html, err := r.Fragment(context.Background(), []model.Post{
		{ID: 1, Title: `<script>alert(1)</script>`, Image: "javascript:alert(1)"},
	})
	require.NoError(t, err)
	require.NotContains(t, string(html), "<script>")
	require.Contains(t, string(html), "&lt;script&gt;")
	require.NotContains(t, string(html), `src="javascript:`)

	c, _ := r.Container(GridContainerID)
	require.Zero(t, c.Len())
}

func TestRenderer_WritePage(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, GridContainerID)

	var buf bytes.Buffer
	require.NoError(t, r.WritePage(&buf, PageData{
		Title:       "Blog",
		ContainerID: GridContainerID,
		Grid:        "<article>card</article>",
		SearchInput: true,
		Sort:        "title",
		Order:       "asc",
	}))

	page := buf.String()
	require.Contains(t, page, `<section id="blogGrid" class="blog-grid"><article>card</article></section>`)
	require.Contains(t, page, `id="blogSearch"`)
	require.Contains(t, page, `<option value="title" selected>`)

	buf.Reset()
	require.NoError(t, r.WritePage(&buf, PageData{ContainerID: GridContainerID}))
	require.NotContains(t, buf.String(), `id="blogSearch"`)
}

func TestRenderer_UnlinkedPostDoesNotNavigate(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t, GridContainerID)
	html, err := r.Fragment(context.Background(), []model.Post{
		{ID: 1, Title: "linked", Slug: "linked", Link: "https://example.com/a"},
		{ID: 2, Title: "unlinked", Slug: "unlinked"},
	})
	require.NoError(t, err)

	out := string(html)
	require.Contains(t, out, `href="/posts/1/open"`)
	require.NotContains(t, out, `/posts/2/open`)
	require.Equal(t, 1, strings.Count(out, `target="_blank"`))
	require.Contains(t, out, `<div class="blog-card-link" data-slug="unlinked">`)
}
