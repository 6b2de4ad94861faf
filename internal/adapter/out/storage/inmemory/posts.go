package inmemory

import (
	"context"
	"slices"
	"sync"

	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/pkg/logger"
)

// PostStorage keeps posts in display order: index 0 is shown first.
type PostStorage struct {
	mu    sync.RWMutex
	posts []model.Post
}

// NewPostStorage starts with seed in the given order. Missing or repeated
// seed ids are replaced so that every id is unique.
func NewPostStorage(seed ...model.Post) *PostStorage {
	return &PostStorage{
		posts: model.UniqueIDs(seed),
	}
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID > 0 && s.indexOf(in.ID) != -1 {
		logger.FromContext(ctx).Warn("post id already taken, assigning a new one", "id", in.ID)
		in.ID = 0
	}
	if in.ID <= 0 {
		in.ID = s.nextID()
	}

	s.posts = slices.Insert(s.posts, 0, in)
	return in, nil
}

func (s *PostStorage) UpdatePost(_ context.Context, postID int64, patch model.PostPatch) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(postID)
	if i == -1 {
		return model.Post{}, service.ErrNotFound
	}
	s.posts[i] = s.posts[i].Apply(patch)
	return s.posts[i], nil
}

func (s *PostStorage) DeletePost(_ context.Context, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(postID)
	if i == -1 {
		return service.ErrNotFound
	}
	s.posts = slices.Delete(s.posts, i, i+1)
	return nil
}

func (s *PostStorage) GetPosts(_ context.Context) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out, nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(postID); i != -1 {
		return s.posts[i], nil
	}
	return model.Post{}, service.ErrNotFound
}

func (s *PostStorage) GetPostBySlug(_ context.Context, slug string) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.posts, func(p model.Post) bool { return p.Slug == slug })
	if i == -1 {
		return model.Post{}, service.ErrNotFound
	}
	return s.posts[i], nil
}

// caller holds mu
func (s *PostStorage) indexOf(postID int64) int {
	return slices.IndexFunc(s.posts, func(p model.Post) bool { return p.ID == postID })
}

// caller holds mu
func (s *PostStorage) nextID() int64 {
	var maxID int64
	for _, p := range s.posts {
		maxID = max(maxID, p.ID)
	}
	return maxID + 1
}
