package rest

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nDmitry/spacetraveling/internal/app"
	"github.com/nDmitry/spacetraveling/internal/blog"
	"github.com/nDmitry/spacetraveling/internal/cache"
	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/nDmitry/spacetraveling/internal/metrics"
	"github.com/nDmitry/spacetraveling/internal/render"
)

// PageLoader loads the first page of posts
type PageLoader interface {
	Load(ctx context.Context) (*entity.PostPagination, error)
}

// FeedGenerator renders posts as a feed
type FeedGenerator interface {
	Generate(posts []entity.DisplayPost, params *entity.FeedParams) ([]byte, error)
}

// BlogOptions holds the settings of the blog routes
type BlogOptions struct {
	Title string
	// Host of the content API, absolute cursors must point there
	ContentHost string
	// In minutes, 0 disables caching
	CacheTTL int
}

// BlogHandler handles the post list page and its load-more endpoint
type BlogHandler struct {
	cache     cache.Cache
	loader    PageLoader
	fetcher   blog.PageFetcher
	renderer  *render.Renderer
	generator FeedGenerator
	opts      BlogOptions
	logger    *slog.Logger
}

// NewBlogHandler creates a new BlogHandler and registers its routes on mux
func NewBlogHandler(
	mux *http.ServeMux,
	c cache.Cache,
	loader PageLoader,
	fetcher blog.PageFetcher,
	renderer *render.Renderer,
	generator FeedGenerator,
	opts BlogOptions,
	moreLimiter *RateLimiter,
) *BlogHandler {
	handler := &BlogHandler{
		cache:     c,
		loader:    loader,
		fetcher:   fetcher,
		renderer:  renderer,
		generator: generator,
		opts:      opts,
		logger:    app.Logger(),
	}

	var more http.Handler = http.HandlerFunc(handler.LoadMore)

	if moreLimiter != nil {
		more = moreLimiter.Middleware(more)
	}

	mux.HandleFunc("GET /{$}", handler.Home)
	mux.Handle("GET /posts/more", more)
	mux.HandleFunc("GET /feed", handler.Feed)

	assets := http.FileServerFS(render.Assets())

	for _, name := range render.AssetNames {
		mux.Handle("GET /"+name, assets)
	}

	return handler
}

// MoreURL links a content API cursor to the load-more endpoint
func MoreURL(cursor string) string {
	if cursor == "" {
		return ""
	}

	return "/posts/more?cursor=" + url.QueryEscape(cursor)
}

// Home renders the first page of posts
func (h *BlogHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "home", "text/html", func(ctx context.Context) ([]byte, error) {
		page, err := h.loader.Load(ctx)

		if err != nil {
			return nil, err
		}

		list := blog.NewPostList(h.fetcher, page)

		var buf bytes.Buffer

		err = h.renderer.Home(&buf, render.HomeData{
			Title:   h.opts.Title,
			FeedURL: "/feed",
			Posts:   list.Posts(),
			MoreURL: MoreURL(list.NextPage()),
		})

		return buf.Bytes(), err
	})
}

// LoadMore resolves a cursor into the next fragment of posts
func (h *BlogHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewLoadMoreParamsFromRequest(r, h.opts.ContentHost)

	if err != nil {
		h.handleError(w, r, err, http.StatusBadRequest)
		return
	}

	h.serveCached(w, r, "more:"+hashKey(params.Cursor), "application/json", func(ctx context.Context) ([]byte, error) {
		list := blog.NewPostList(h.fetcher, &entity.PostPagination{NextPage: params.Cursor})

		added, err := list.LoadMore(ctx)

		if err != nil {
			return nil, err
		}

		fragment, err := h.renderer.Fragment(added, MoreURL(list.NextPage()))

		if err != nil {
			return nil, err
		}

		return json.Marshal(fragment)
	})
}

// Feed renders the first page of posts as RSS or Atom
func (h *BlogHandler) Feed(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewFeedParamsFromRequest(r)

	if err != nil {
		h.handleError(w, r, err, http.StatusBadRequest)
		return
	}

	contentType := "application/rss+xml"

	if params.Format == entity.FormatAtom {
		contentType = "application/atom+xml"
	}

	h.serveCached(w, r, "feed:"+params.Format, contentType, func(ctx context.Context) ([]byte, error) {
		page, err := h.loader.Load(ctx)

		if err != nil {
			return nil, err
		}

		return h.generator.Generate(blog.ToDisplay(page.Results), params)
	})
}

// serveCached serves the cached content under key, producing and caching it
// on a miss. Errors from produce are answered with 502.
func (h *BlogHandler) serveCached(
	w http.ResponseWriter,
	r *http.Request,
	key string,
	contentType string,
	produce func(ctx context.Context) ([]byte, error),
) {
	page := cachePageLabel(key)

	// Try to get from cache first if caching is enabled
	if h.opts.CacheTTL > 0 {
		cachedContent, cacheErr := h.cache.Get(r.Context(), key)

		if cacheErr == nil {
			metrics.CacheLookupsTotal.WithLabelValues(page, "hit").Inc()
			w.Header().Set("X-CACHE-STATUS", "HIT")
			h.serveContent(w, cachedContent, contentType)
			return
		} else if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			// Real error, not just cache miss
			h.logger.ErrorContext(r.Context(), "Cache error", "error", cacheErr)
		}

		metrics.CacheLookupsTotal.WithLabelValues(page, "miss").Inc()
	}

	content, err := produce(r.Context())

	if err != nil {
		h.handleError(w, r, err, http.StatusBadGateway)
		return
	}

	// Cache the result if caching is enabled
	if h.opts.CacheTTL > 0 {
		cacheTTL := time.Duration(h.opts.CacheTTL) * time.Minute

		// Use background context for caching to avoid cancellation
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, key, content, cacheTTL); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to cache content", "error", err)
		}
	}

	w.Header().Set("X-CACHE-STATUS", "MISS")
	h.serveContent(w, content, contentType)
}

// serveContent sends the content to the client with appropriate headers
func (h *BlogHandler) serveContent(w http.ResponseWriter, content []byte, contentType string) {
	w.Header().Set("Content-Type", contentType+"; charset=utf-8")

	if h.opts.CacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.opts.CacheTTL*60))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}

	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		h.logger.Error("Failed to write response", "error", err)
	}
}

// handleError responds with an error message
func (h *BlogHandler) handleError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	h.logger.ErrorContext(r.Context(), "Request error", "error", err, "status", statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{"error": err.Error()}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		handleBadErrorResponse(err, response)
	}
}

func handleBadErrorResponse(err error, resp any) {
	app.Logger().Error(
		"failed to encode an error response",
		"error", err,
		"response", resp,
	)
}

// hashKey keeps cache keys short whatever the cursor length
func hashKey(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// cachePageLabel keeps the metrics label cardinality bounded
func cachePageLabel(key string) string {
	page, _, _ := strings.Cut(key, ":")
	return page
}
