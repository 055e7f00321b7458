package main

import (
	"net/http"

	"github.com/nDmitry/spacetraveling/internal/api/rest"
	"github.com/nDmitry/spacetraveling/internal/app"
	"github.com/nDmitry/spacetraveling/internal/cache"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the post list over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := app.Logger()

	c, err := newContent(cfg)

	if err != nil {
		return err
	}

	var pageCache cache.Cache = cache.Nop{}

	if cfg.RedisHost != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr())

		if err != nil {
			return err
		}

		pageCache = redisClient
	} else {
		logger.Warn("REDIS_HOST is not set, caching is disabled")
	}

	defer pageCache.Close()

	moreLimiter := rest.NewRateLimiter(cfg.LoadMoreRate, cfg.LoadMoreBurst)

	server := rest.NewServer(cfg.HTTPPort, moreLimiter, func(mux *http.ServeMux) {
		rest.NewBlogHandler(mux, pageCache, c.loader, c.client, c.renderer, c.generator, rest.BlogOptions{
			Title:       cfg.SiteTitle,
			ContentHost: c.client.Host(),
			CacheTTL:    cfg.CacheTTL,
		}, moreLimiter)
	})

	return server.Run(ctx)
}
