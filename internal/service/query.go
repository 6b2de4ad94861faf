package service

import (
	"slices"
	"strings"

	"postboard/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterPosts keeps posts whose title or description contains query, ignoring case.
// A blank query keeps everything. The input is never modified.
func FilterPosts(posts []model.Post, query string) []model.Post {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(posts)
	}

	needle := strings.ToLower(query)
	out := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// SortPosts returns a stably sorted copy. Unknown fields return the input order.
// Field and order are normalized first, so "Title" or "descending" work too.
func SortPosts(posts []model.Post, field SortField, order SortOrder, tag language.Tag) []model.Post {
	out := slices.Clone(posts)
	field = ParseSortField(string(field))
	order = ParseSortOrder(string(order))

	var cmp func(a, b model.Post) int
	switch field {
	case SortByDate:
		cmp = compareDates
	case SortByTitle:
		// Collators are not safe for concurrent use.
		c := collate.New(tag)
		cmp = func(a, b model.Post) int {
			return c.CompareString(a.Title, b.Title)
		}
	default:
		return out
	}

	if order == Descending {
		asc := cmp
		cmp = func(a, b model.Post) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// Unparseable dates compare as the zero time.
func compareDates(a, b model.Post) int {
	ta, _ := a.PublishedOn()
	tb, _ := b.PublishedOn()
	return ta.Compare(tb)
}
