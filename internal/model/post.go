package model

import (
	"strings"
	"time"
)

// Layouts accepted by PublishedOn, tried in order.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
}

type Post struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
	Date        string `json:"date" yaml:"date"`
	ReadTime    string `json:"readTime" yaml:"readTime"`
	Slug        string `json:"slug" yaml:"slug"`
	Link        string `json:"link,omitempty" yaml:"link,omitempty"`
}

// PublishedOn parses Date. Unparseable dates yield the zero time and false.
func (p Post) PublishedOn() (time.Time, bool) {
	raw := strings.TrimSpace(p.Date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (p Post) HasLink() bool {
	return strings.TrimSpace(p.Link) != ""
}

// PostPatch overwrites every non-nil field. ID is not patchable.
type PostPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Date        *string `json:"date,omitempty"`
	ReadTime    *string `json:"readTime,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Link        *string `json:"link,omitempty"`
}

func (pp PostPatch) IsEmpty() bool {
	return pp.Title == nil &&
		pp.Description == nil &&
		pp.Image == nil &&
		pp.Date == nil &&
		pp.ReadTime == nil &&
		pp.Slug == nil &&
		pp.Link == nil
}

// Apply returns a copy of p with the patch laid over it.
func (p Post) Apply(patch PostPatch) Post {
	out := p
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Image != nil {
		out.Image = *patch.Image
	}
	if patch.Date != nil {
		out.Date = *patch.Date
	}
	if patch.ReadTime != nil {
		out.ReadTime = *patch.ReadTime
	}
	if patch.Slug != nil {
		out.Slug = *patch.Slug
	}
	if patch.Link != nil {
		out.Link = *patch.Link
	}
	return out
}
