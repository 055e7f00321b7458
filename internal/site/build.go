// Package site renders the blog into a directory of static files.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nDmitry/spacetraveling/internal/app"
	"github.com/nDmitry/spacetraveling/internal/blog"
	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/nDmitry/spacetraveling/internal/render"
)

type PageLoader interface {
	Load(ctx context.Context) (*entity.PostPagination, error)
}

type FeedGenerator interface {
	Generate(posts []entity.DisplayPost, params *entity.FeedParams) ([]byte, error)
}

// Builder walks every page of posts once and writes the page, its
// fragments, the feeds and the assets to disk.
type Builder struct {
	Loader    PageLoader
	Fetcher   blog.PageFetcher
	Renderer  *render.Renderer
	Generator FeedGenerator
	Title     string
	// MaxPages caps the number of fragments, 0 means no cap
	MaxPages int

	logger *slog.Logger
}

// Result describes what a build wrote
type Result struct {
	Posts     int
	Fragments int
}

func fragmentURL(n int) string {
	return fmt.Sprintf("/pages/%d.json", n)
}

// Build writes the site to outDir. Any failed fetch aborts the build, files
// written so far are left in place.
func (b *Builder) Build(ctx context.Context, outDir string) (*Result, error) {
	if b.MaxPages < 0 {
		return nil, fmt.Errorf("max pages must be non-negative, got %d", b.MaxPages)
	}

	if b.logger == nil {
		b.logger = app.Logger()
	}

	if err := os.MkdirAll(filepath.Join(outDir, "pages"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create %s: %w", outDir, err)
	}

	first, err := b.Loader.Load(ctx)

	if err != nil {
		return nil, err
	}

	list := blog.NewPostList(b.Fetcher, first)

	var home bytes.Buffer
	var more string

	if list.HasMore() {
		more = fragmentURL(1)
	}

	err = b.Renderer.Home(&home, render.HomeData{
		Title:   b.Title,
		FeedURL: "/feed.xml",
		Posts:   list.Posts(),
		MoreURL: more,
	})

	if err != nil {
		return nil, err
	}

	if err := writeFile(outDir, "index.html", home.Bytes()); err != nil {
		return nil, err
	}

	fragments := 0

	for more != "" {
		added, err := list.LoadMore(ctx)

		if errors.Is(err, blog.ErrNoMorePages) {
			break
		}

		if err != nil {
			return nil, err
		}

		fragments++
		more = ""

		if list.HasMore() && (b.MaxPages == 0 || fragments < b.MaxPages) {
			more = fragmentURL(fragments + 1)
		}

		fragment, err := b.Renderer.Fragment(added, more)

		if err != nil {
			return nil, err
		}

		content, err := json.Marshal(fragment)

		if err != nil {
			return nil, fmt.Errorf("could not marshal fragment %d: %w", fragments, err)
		}

		if err := writeFile(outDir, filepath.Join("pages", fmt.Sprintf("%d.json", fragments)), content); err != nil {
			return nil, err
		}

		b.logger.InfoContext(ctx, "Fragment written", "page", fragments, "posts", len(added))
	}

	posts := list.Posts()

	for name, format := range map[string]string{"feed.xml": entity.FormatRSS, "atom.xml": entity.FormatAtom} {
		content, err := b.Generator.Generate(posts, &entity.FeedParams{Format: format})

		if err != nil {
			return nil, err
		}

		if err := writeFile(outDir, name, content); err != nil {
			return nil, err
		}
	}

	if err := copyAssets(outDir); err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "Site built", "dir", outDir, "posts", len(posts), "fragments", fragments)

	return &Result{Posts: len(posts), Fragments: fragments}, nil
}

func copyAssets(outDir string) error {
	assets := render.Assets()

	for _, name := range render.AssetNames {
		content, err := fs.ReadFile(assets, name)

		if err != nil {
			return fmt.Errorf("could not read asset %s: %w", name, err)
		}

		if err := writeFile(outDir, name, content); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(dir, name string, content []byte) error {
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	return nil
}
