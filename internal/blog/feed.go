package blog

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/nDmitry/spacetraveling/internal/entity"
)

// FeedGenerator renders posts as an RSS or Atom feed
type FeedGenerator struct {
	Title string
	// SiteURL is the absolute base URL post links are built on
	SiteURL string
}

// Generate creates a feed from posts and returns it as a byte array
func (g *FeedGenerator) Generate(posts []entity.DisplayPost, params *entity.FeedParams) ([]byte, error) {
	base := strings.TrimRight(g.SiteURL, "/")

	feed := &feeds.Feed{
		Title:       g.Title,
		Link:        &feeds.Link{Href: base + "/"},
		Description: g.Title,
		Image:       &feeds.Image{Url: base + "/logo.svg", Title: g.Title, Link: base + "/"},
	}

	for _, p := range posts {
		link := base + p.Href()

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: Excerpt(p.Subtitle),
			Author:      &feeds.Author{Name: p.Author},
			Created:     p.CreatedAt,
		})

		if feed.Created.IsZero() || p.CreatedAt.After(feed.Created) {
			feed.Created = p.CreatedAt
		}
	}

	if feed.Created.IsZero() {
		feed.Created = time.Now().UTC()
	}

	var content string
	var err error

	switch params.Format {
	case entity.FormatRSS:
		content, err = feed.ToRss()
	case entity.FormatAtom:
		content, err = feed.ToAtom()
	default:
		return nil, fmt.Errorf("unsupported feed format: %s", params.Format)
	}

	if err != nil {
		return nil, fmt.Errorf("could not marshal posts to %s feed: %w", params.Format, err)
	}

	return []byte(content), nil
}
