package service

import (
	"strings"

	"postboard/internal/model"
)

type SortField string

const (
	SortByDate  SortField = "date"
	SortByTitle SortField = "title"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortField normalizes user input. Empty means date; anything else is kept as-is
// so that SortPosts can pass it through.
func ParseSortField(s string) SortField {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortByDate
	}
	return SortField(s)
}

// ParseSortOrder maps "" and desc/descending to Descending and everything else to Ascending.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

type ListPostsRequest struct {
	Query string
	Field SortField
	Order SortOrder
}

// Sorted reports whether the request asks for an explicit sort.
func (r ListPostsRequest) Sorted() bool {
	return r.Field != "" || r.Order != ""
}

type CreatePostRequest struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Date        string `json:"date"`
	ReadTime    string `json:"readTime"`
	Slug        string `json:"slug"`
	Link        string `json:"link,omitempty"`
}

func (r CreatePostRequest) toModel() model.Post {
	return model.Post{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Date:        r.Date,
		ReadTime:    r.ReadTime,
		Slug:        r.Slug,
		Link:        r.Link,
	}
}
