package web

import (
	"context"
	"net/http"

	"postboard/internal/model"
	"postboard/internal/service"
)

type PostService interface {
	AddPost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	UpdatePost(ctx context.Context, postID int64, patch model.PostPatch) (bool, error)
	RemovePost(ctx context.Context, postID int64) (bool, error)
	GetByID(ctx context.Context, postID int64) (model.Post, bool, error)
	GetBySlug(ctx context.Context, slug string) (model.Post, bool, error)
	FilterByText(ctx context.Context, query string) ([]model.Post, error)
	ListPosts(ctx context.Context, req service.ListPostsRequest) ([]model.Post, error)
}

type ServerConfig struct {
	Title       string
	SearchInput bool
	// AssetsDir is served under /Assets/ when set.
	AssetsDir string
}

type Server struct {
	posts     PostService
	renderer  *Renderer
	activator Activator
	cfg       ServerConfig
}

func NewServer(posts PostService, renderer *Renderer, activator Activator, cfg ServerConfig) *Server {
	if activator == nil {
		activator = LinkActivator{}
	}
	if cfg.Title == "" {
		cfg.Title = "Blog"
	}
	return &Server{
		posts:     posts,
		renderer:  renderer,
		activator: activator,
		cfg:       cfg,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	if s.cfg.AssetsDir != "" {
		mux.Handle("GET /Assets/", http.StripPrefix("/Assets/", http.FileServer(http.Dir(s.cfg.AssetsDir))))
	}

	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /search", s.Search)
	mux.HandleFunc("GET /posts/{id}/open", s.OpenPost)

	mux.HandleFunc("GET /api/posts", s.ListPosts)
	mux.HandleFunc("POST /api/posts", s.CreatePost)
	mux.HandleFunc("GET /api/posts/{id}", s.GetPost)
	mux.HandleFunc("GET /api/posts/slug/{slug}", s.GetPostBySlug)
	mux.HandleFunc("PATCH /api/posts/{id}", s.UpdatePost)
	mux.HandleFunc("DELETE /api/posts/{id}", s.DeletePost)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return withRequestLogger(mux)
}
