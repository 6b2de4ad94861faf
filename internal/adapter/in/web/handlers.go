package web

import (
	"html/template"
	"net/http"

	"postboard/internal/model"
	"postboard/internal/service"
	"postboard/pkg/logger"
)

// Index serves the page. Without query params it shows the grid container as last rendered.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := toListRequest(r)

	data := PageData{
		Title:       s.cfg.Title,
		ContainerID: GridContainerID,
		SearchInput: s.cfg.SearchInput,
		Query:       req.Query,
		Sort:        string(req.Field),
		Order:       string(req.Order),
	}
	if data.Sort == "" {
		data.Sort = string(service.SortByDate)
	}
	if data.Order == "" {
		data.Order = string(service.Descending)
	}

	if req.Query == "" && !req.Sorted() {
		if c, ok := s.renderer.Container(GridContainerID); ok {
			data.Grid = c.HTML()
		}
	} else {
		grid, err := s.fragment(r, req)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		data.Grid = grid
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.WritePage(w, data); err != nil {
		logger.FromContext(ctx).Error("error writing page", "error", err)
	}
}

// Search answers the search input with the filtered cards only.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	posts, err := s.posts.FilterByText(ctx, r.URL.Query().Get("q"))
	if err != nil {
		logger.FromContext(ctx).Error("error filtering posts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	grid, err := s.renderer.Fragment(ctx, posts)
	if err != nil {
		logger.FromContext(ctx).Error("error rendering cards", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(grid))
}

func (s *Server) fragment(r *http.Request, req service.ListPostsRequest) (template.HTML, error) {
	ctx := r.Context()
	posts, err := s.posts.ListPosts(ctx, req)
	if err != nil {
		logger.FromContext(ctx).Error("error listing posts", "error", err)
		return "", err
	}
	grid, err := s.renderer.Fragment(ctx, posts)
	if err != nil {
		logger.FromContext(ctx).Error("error rendering cards", "error", err)
		return "", err
	}
	return grid, nil
}

// OpenPost is the card activation target.
func (s *Server) OpenPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.lookup(w, r)
	if !ok {
		return
	}

	link, ok := s.activator.Activate(r.Context(), post)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, link, http.StatusFound)
}

func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListPosts(r.Context(), toListRequest(r))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, posts)
}

func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	post, err := s.posts.AddPost(r.Context(), req)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, post)
}

func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

func (s *Server) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, ok, err := s.posts.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeJSON(w, r, http.StatusNotFound, nil)
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var patch model.PostPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	updated, err := s.posts.UpdatePost(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"updated": updated})
}

func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	removed, err := s.posts.RemovePost(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"removed": removed})
}

// lookup resolves the {id} path value, writing the error response itself.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (model.Post, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return model.Post{}, false
	}

	post, ok, err := s.posts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return model.Post{}, false
	}
	if !ok {
		writeJSON(w, r, http.StatusNotFound, nil)
		return model.Post{}, false
	}
	return post, true
}
