package blog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/nDmitry/spacetraveling/internal/metrics"
)

var (
	// ErrNoMorePages is returned by LoadMore once the cursor is exhausted
	ErrNoMorePages = errors.New("no more pages")

	// ErrLoadInProgress is returned by LoadMore while another load is running
	ErrLoadInProgress = errors.New("load already in progress")
)

// PageFetcher follows a next-page cursor
type PageFetcher interface {
	FetchPage(ctx context.Context, cursor string) (*entity.PostPagination, error)
}

// PostList holds the posts shown so far and the cursor to the next page.
// Posts are only ever appended, the cursor is replaced on every load.
type PostList struct {
	fetcher PageFetcher

	mu       sync.Mutex
	posts    []entity.DisplayPost
	nextPage string
	loading  bool
}

// NewPostList seeds the list with the first page.
func NewPostList(fetcher PageFetcher, page *entity.PostPagination) *PostList {
	return &PostList{
		fetcher:  fetcher,
		posts:    ToDisplay(page.Results),
		nextPage: page.NextPage,
	}
}

// Posts returns a copy of the posts loaded so far.
func (l *PostList) Posts() []entity.DisplayPost {
	l.mu.Lock()
	defer l.mu.Unlock()

	posts := make([]entity.DisplayPost, len(l.posts))
	copy(posts, l.posts)

	return posts
}

// NextPage returns the cursor of the next page, empty when exhausted.
func (l *PostList) NextPage() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.nextPage
}

// HasMore reports whether a load-more control should be offered.
func (l *PostList) HasMore() bool {
	return l.NextPage() != ""
}

// LoadMore fetches the next page and appends its posts, returning only the
// ones just added. Only one load runs at a time: a call made while another
// is in flight fails with ErrLoadInProgress. On a failed fetch the list is
// left untouched so the load can be retried.
func (l *PostList) LoadMore(ctx context.Context) ([]entity.DisplayPost, error) {
	l.mu.Lock()

	if l.nextPage == "" {
		l.mu.Unlock()
		metrics.LoadMoreTotal.WithLabelValues("exhausted").Inc()
		return nil, ErrNoMorePages
	}

	if l.loading {
		l.mu.Unlock()
		metrics.LoadMoreTotal.WithLabelValues("in_progress").Inc()
		return nil, ErrLoadInProgress
	}

	l.loading = true
	cursor := l.nextPage
	l.mu.Unlock()

	page, err := l.fetcher.FetchPage(ctx, cursor)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.loading = false

	if err != nil {
		metrics.LoadMoreTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("could not load next page: %w", err)
	}

	added := ToDisplay(page.Results)
	l.posts = append(l.posts, added...)
	l.nextPage = page.NextPage

	metrics.LoadMoreTotal.WithLabelValues("ok").Inc()

	return added, nil
}
