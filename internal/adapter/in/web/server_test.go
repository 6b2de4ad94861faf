package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postboard/internal/adapter/out/storage/inmemory"
	"postboard/internal/model"
	"postboard/internal/service"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, seed []model.Post) (http.Handler, *Renderer) {
	t.Helper()

	r := newTestRenderer(t, GridContainerID)
	svc := service.NewPostService(inmemory.NewPostStorage(seed...), r)
	require.NoError(t, svc.Render(context.Background()))

	srv := NewServer(svc, r, nil, ServerConfig{SearchInput: true})
	return srv.Routes(), r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func cardOrder(t *testing.T, html string, ids ...string) {
	t.Helper()

	last := -1
	for _, id := range ids {
		i := strings.Index(html, `data-post-id="`+id+`"`)
		require.Greater(t, i, last, "post %s out of order", id)
		last = i
	}
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, model.DefaultSeed())

	rec := do(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
	cardOrder(t, rec.Body.String(), "1", "2", "3", "4", "5")

	rec = do(t, h, http.MethodGet, "/?sort=date&order=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cardOrder(t, rec.Body.String(), "5", "4", "3", "2", "1")

	rec = do(t, h, http.MethodGet, "/?q=device", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, strings.Count(rec.Body.String(), `class="blog-card"`))
}

func TestServer_Index_ReflectsMutations(t *testing.T) {
	t.Parallel()

	h, r := newTestServer(t, model.DefaultSeed())

	rec := do(t, h, http.MethodDelete, "/api/posts/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"removed":true}`, rec.Body.String())

	c, _ := r.Container(GridContainerID)
	require.Equal(t, 4, c.Len())

	rec = do(t, h, http.MethodGet, "/", "")
	require.NotContains(t, rec.Body.String(), `data-post-id="3"`)
}

func TestServer_Search(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, model.DefaultSeed())

	rec := do(t, h, http.MethodGet, "/search?q=FAKE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Equal(t, 1, strings.Count(body, `class="blog-card"`))
	require.Contains(t, body, `data-post-id="2"`)
	require.NotContains(t, body, "<html")

	rec = do(t, h, http.MethodGet, "/search?q=", "")
	require.Equal(t, 5, strings.Count(rec.Body.String(), `class="blog-card"`))
}

func TestServer_OpenPost(t *testing.T) {
	t.Parallel()

	seed := model.DefaultSeed()
	seed[1].Link = ""
	h, _ := newTestServer(t, seed)

	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{name: "linked", target: "/posts/1/open", wantStatus: http.StatusFound, wantLocation: seed[0].Link},
		{name: "no link", target: "/posts/2/open", wantStatus: http.StatusNoContent},
		{name: "unknown id", target: "/posts/99/open", wantStatus: http.StatusNotFound},
		{name: "bad id", target: "/posts/abc/open", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestServer_API(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, []model.Post{{ID: 1, Title: "a"}, {ID: 3, Title: "b"}, {ID: 5, Title: "c", Slug: "c"}})

	rec := do(t, h, http.MethodPost, "/api/posts", `{"title":"new","slug":"new","date":"Nov 22, 2025"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, int64(6), created.ID)

	rec = do(t, h, http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 4)
	require.Equal(t, int64(6), all[0].ID)

	rec = do(t, h, http.MethodGet, "/api/posts?sort=title&order=asc", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Equal(t, []string{"a", "b", "c", "new"}, titles(all))

	rec = do(t, h, http.MethodPatch, "/api/posts/5", `{"title":"X"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"updated":true}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/posts/slug/c", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "X", got.Title)
	require.Equal(t, int64(5), got.ID)

	rec = do(t, h, http.MethodPatch, "/api/posts/42", `{"title":"X"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"updated":false}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/posts/42", "")
	require.JSONEq(t, `{"removed":false}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/posts/slug/nonexistent-slug", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = do(t, h, http.MethodGet, "/api/posts/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/posts/1", `{"id":7}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/posts", `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, nil)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))
}

func titles(posts []model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}
