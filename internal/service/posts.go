package service

import (
	"context"
	"errors"

	"postboard/internal/model"
	"postboard/pkg/logger"

	"golang.org/x/text/language"
)

//go:generate mockgen -source=posts.go -destination=./post_storage_mock.go -package=service
type PostStorage interface {
	// CreatePost assigns an id when post.ID is zero, negative or already taken
	// and stores the post in front of all others.
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	UpdatePost(ctx context.Context, postID int64, patch model.PostPatch) (model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	GetPosts(ctx context.Context) ([]model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (model.Post, error)
}

type Renderer interface {
	Render(ctx context.Context, posts []model.Post) error
}

type PostService struct {
	postStorage PostStorage
	renderer    Renderer
	locale      language.Tag
}

type Option func(*PostService)

// WithLocale sets the collation used for title sorting.
func WithLocale(tag language.Tag) Option {
	return func(s *PostService) {
		s.locale = tag
	}
}

func NewPostService(postStorage PostStorage, renderer Renderer, opts ...Option) *PostService {
	s := &PostService{
		postStorage: postStorage,
		renderer:    renderer,
		locale:      language.English,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostService) AddPost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	p, err := s.postStorage.CreatePost(ctx, req.toModel())
	if err != nil {
		return model.Post{}, err
	}
	logger.FromContext(ctx).Info("post added", "id", p.ID, "slug", p.Slug)
	s.rerender(ctx)
	return p, nil
}

// UpdatePost reports false when no post has postID.
func (s *PostService) UpdatePost(ctx context.Context, postID int64, patch model.PostPatch) (bool, error) {
	p, err := s.postStorage.UpdatePost(ctx, postID, patch)
	if errors.Is(err, ErrNotFound) {
		logger.FromContext(ctx).Debug("update skipped, post not found", "id", postID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info("post updated", "id", p.ID)
	s.rerender(ctx)
	return true, nil
}

// RemovePost reports false when no post has postID.
func (s *PostService) RemovePost(ctx context.Context, postID int64) (bool, error) {
	err := s.postStorage.DeletePost(ctx, postID)
	if errors.Is(err, ErrNotFound) {
		logger.FromContext(ctx).Debug("remove skipped, post not found", "id", postID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info("post removed", "id", postID)
	s.rerender(ctx)
	return true, nil
}

func (s *PostService) GetAll(ctx context.Context) ([]model.Post, error) {
	return s.postStorage.GetPosts(ctx)
}

func (s *PostService) GetByID(ctx context.Context, postID int64) (model.Post, bool, error) {
	return found(s.postStorage.GetPostByID(ctx, postID))
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (model.Post, bool, error) {
	return found(s.postStorage.GetPostBySlug(ctx, slug))
}

func (s *PostService) FilterByText(ctx context.Context, query string) ([]model.Post, error) {
	posts, err := s.postStorage.GetPosts(ctx)
	if err != nil {
		return nil, err
	}
	return FilterPosts(posts, query), nil
}

func (s *PostService) SortBy(ctx context.Context, field SortField, order SortOrder) ([]model.Post, error) {
	posts, err := s.postStorage.GetPosts(ctx)
	if err != nil {
		return nil, err
	}
	return s.sort(ctx, posts, field, order), nil
}

// ListPosts filters first and then sorts when the request names a field or an order.
func (s *PostService) ListPosts(ctx context.Context, req ListPostsRequest) ([]model.Post, error) {
	posts, err := s.FilterByText(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if !req.Sorted() {
		return posts, nil
	}
	return s.sort(ctx, posts, req.Field, req.Order), nil
}

// Render pushes the whole collection to the renderer. Without a renderer it does nothing.
func (s *PostService) Render(ctx context.Context) error {
	if s.renderer == nil {
		return nil
	}
	posts, err := s.postStorage.GetPosts(ctx)
	if err != nil {
		return err
	}
	return s.renderer.Render(ctx, posts)
}

func (s *PostService) sort(ctx context.Context, posts []model.Post, field SortField, order SortOrder) []model.Post {
	field = ParseSortField(string(field))
	order = ParseSortOrder(string(order))
	if field != SortByDate && field != SortByTitle {
		logger.FromContext(ctx).Debug("unknown sort field, keeping order", "field", field)
	}
	return SortPosts(posts, field, order, s.locale)
}

// Render failures after a mutation are logged, never returned.
func (s *PostService) rerender(ctx context.Context) {
	if err := s.Render(ctx); err != nil {
		logger.FromContext(ctx).Error("re-render failed", "error", err)
	}
}

func found(p model.Post, err error) (model.Post, bool, error) {
	if errors.Is(err, ErrNotFound) {
		return model.Post{}, false, nil
	}
	if err != nil {
		return model.Post{}, false, err
	}
	return p, true, nil
}
