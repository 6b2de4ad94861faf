package web

import (
	"context"
	"strings"

	"postboard/internal/model"
	"postboard/pkg/logger"
)

type Activator interface {
	// Activate returns the URL to open for post, or false when there is none.
	Activate(ctx context.Context, post model.Post) (string, bool)
}

// LinkActivator opens the post's own link.
type LinkActivator struct{}

func (LinkActivator) Activate(ctx context.Context, post model.Post) (string, bool) {
	log := logger.FromContext(ctx)
	log.Info("post activated", "id", post.ID, "title", post.Title)

	if !post.HasLink() {
		log.Warn("no link specified for post", "id", post.ID, "title", post.Title)
		return "", false
	}
	return strings.TrimSpace(post.Link), true
}
