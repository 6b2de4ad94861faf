package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"postboard/config"
	"postboard/internal/model"

	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		StorageType: config.StorageMemory,
		HTTP:        config.HTTPConfig{Port: "0"},
		Render: config.RenderConfig{
			ContainerID:   "blogGrid",
			StaggerMillis: 100,
			Locale:        "en",
		},
		Log: config.LogConfig{Format: "text"},
	}
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	posts, err := LoadSeed("")
	require.NoError(t, err)
	require.Equal(t, model.DefaultSeed(), posts)

	path := writeSeed(t, "- id: 9\n  title: From file\n  slug: from-file\n  date: Nov 1, 2025\n")
	posts, err = LoadSeed(path)
	require.NoError(t, err)
	require.Equal(t, []model.Post{{ID: 9, Title: "From file", Slug: "from-file", Date: "Nov 1, 2025"}}, posts)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestNewApp_Memory(t *testing.T) {
	t.Parallel()

	a, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5, strings.Count(rec.Body.String(), `class="blog-card"`))
}

func TestNewApp_MissingContainer(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.Render.ContainerID = "elsewhere"

	a, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), `class="blog-card"`)
}

func TestNewPostService_SeedFile(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.SeedFile = writeSeed(t, "- id: 1\n  title: one\n- id: 2\n  title: two\n")

	svc, pool, err := NewPostService(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Nil(t, pool)

	post, ok, err := svc.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", post.Title)
}

func TestNewPostService_BadLocale(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.Render.Locale = "not a locale!"

	_, _, err := NewPostService(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestNewPostService_SeedFileWithoutIDs(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.SeedFile = writeSeed(t, "- title: one\n- title: two\n")
	ctx := context.Background()

	svc, _, err := NewPostService(ctx, cfg, nil)
	require.NoError(t, err)

	removed, err := svc.RemovePost(ctx, 1)
	require.NoError(t, err)
	require.True(t, removed)

	left, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, int64(2), left[0].ID)
	require.Equal(t, "two", left[0].Title)
}
