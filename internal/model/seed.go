package model

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns a fresh copy of the posts the board starts with.
func DefaultSeed() []Post {
	return []Post{
		{
			ID:          1,
			Title:       "The Silent Revenue Leak—Why Fraud is Eating Digital Platforms Alive",
			Description: "Every digital platform today, whether e-marketplace, fintech app, gaming platform, social network, or ride-sharing service shares the same hidden enemy.",
			Image:       "./Assets/Blog/blog_1.png",
			Date:        "Nov 17, 2025",
			ReadTime:    "3 minute read",
			Slug:        "silent-revenue-leak-fraud-digital-platforms",
			Link:        "https://medium.com/@gokulnair-2001/01b0b2493e50",
		},
		{
			ID:          2,
			Title:       "Fake Users, Real Damage — A Story of How Platforms Lose Millions Without Realizing It",
			Description: "To understand how silent fraud destroys a platform, let's dive with a true-to-life story. A story that repeats itself across almost every modern digital company.",
			Image:       "./Assets/Blog/blog_2.png",
			Date:        "Nov 18, 2025",
			ReadTime:    "3 minute read",
			Slug:        "fake-users-real-damage-platform-losses",
			Link:        "https://medium.com/@gokulnair-2001/be7846d0f055",
		},
		{
			ID:          3,
			Title:       "The Rise of Bots, Device Farms & Micro-Fraud Rings — What’s Fueling the Surge?",
			Description: "Fraud on digital platforms has entered a new era.What used to be simple, low-effort attempts like basic bots, repeated signups, or obvious spam is now an industrialized, global ecosystem powered by automation, cheap devices, and coordinated fraud operations.",
			Image:       "./Assets/Blog/blog_3.png",
			Date:        "Nov 19, 2025",
			ReadTime:    "4 minute read",
			Slug:        "rise-of-bots-device-farms-micro-fraud-rings",
			Link:        "https://medium.com/@gokulnair-2001/the-rise-of-bots-device-farms-micro-fraud-rings-whats-fueling-the-surge-996d4a57355d",
		},
		{
			ID:          4,
			Title:       "Why Fraud Today Is Harder to Detect Than Ever ?",
			Description: "Modern digital fraud isn’t just increasing, it’s becoming systematically harder to detect. Not because platforms lack intelligence or effort, but because fraud has evolved far beyond the capabilities of traditional tools and fragmented trust systems.",
			Image:       "./Assets/Blog/blog_4.png",
			Date:        "Nov 20, 2025",
			ReadTime:    "3 minute read",
			Slug:        "why-fraud-today-is-harder-to-detect-than-ever",
			Link:        "https://medium.com/@gokulnair-2001/why-fraud-today-is-harder-to-detect-than-ever-4a46bc8d6b60",
		},
		{
			ID:          5,
			Title:       "The Hidden Cost of Trust Problems — User Loss, Bad Recommendations & Stunted Growth",
			Description: "Fraud and low trust don’t just cause direct financial losses. They silently distort the very systems that power growth from data models to user experience.",
			Image:       "./Assets/Blog/blog_5.png",
			Date:        "Nov 21, 2025",
			ReadTime:    "3 minute read",
			Slug:        "the-hidden-cost-of-trust-problems-user-loss-bad-recommendations-stunted-growth",
			Link:        "https://medium.com/@gokulnair-2001/the-hidden-cost-of-trust-problems-user-loss-bad-recommendations-stunted-growth-7aec88b54b1b",
		},
	}
}

// LoadSeed decodes a YAML list of posts. Order in the document is display order.
func LoadSeed(r io.Reader) ([]Post, error) {
	var posts []Post
	if err := yaml.NewDecoder(r).Decode(&posts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return posts, nil
}

// UniqueIDs copies posts, giving the next free id to posts with a missing,
// negative or repeated one. The first post holding an id keeps it.
func UniqueIDs(posts []Post) []Post {
	out := slices.Clone(posts)

	seen := make(map[int64]bool, len(out))
	var maxID int64
	for _, p := range out {
		maxID = max(maxID, p.ID)
	}
	for i := range out {
		if out[i].ID <= 0 || seen[out[i].ID] {
			maxID++
			out[i].ID = maxID
		}
		seen[out[i].ID] = true
	}
	return out
}
