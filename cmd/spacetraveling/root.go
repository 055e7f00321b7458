package main

import (
	"fmt"

	"github.com/nDmitry/spacetraveling/internal/app"
	"github.com/nDmitry/spacetraveling/internal/blog"
	"github.com/nDmitry/spacetraveling/internal/config"
	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/nDmitry/spacetraveling/internal/prismic"
	"github.com/nDmitry/spacetraveling/internal/render"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
	cfg     *entity.Config
)

var rootCmd = &cobra.Command{
	Use:   "spacetraveling",
	Short: "Blog front page backed by a Prismic repository",
	Long: `spacetraveling lists the posts of a Prismic repository, five at a time,
with a control loading the next page.

It either serves the page over HTTP or renders it once into static files:
  spacetraveling serve
  spacetraveling build --out dist`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "JSON config file, environment variables take precedence")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

func initConfig() error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	var err error

	if cfg, err = config.Read(cfgFile); err != nil {
		return err
	}

	app.SetLogLevel(cfg.LogLevel)

	return nil
}

// content holds the pieces both commands read posts through
type content struct {
	client    *prismic.Client
	loader    *blog.Loader
	renderer  *render.Renderer
	generator *blog.FeedGenerator
}

func newContent(cfg *entity.Config) (*content, error) {
	client, err := prismic.NewClient(cfg.PrismicEndpoint, prismic.Options{
		AccessToken: cfg.PrismicAccessToken,
		Timeout:     cfg.PrismicRequestTimeout(),
		RateLimit:   cfg.PrismicRateLimit,
	})

	if err != nil {
		return nil, fmt.Errorf("could not create content client: %w", err)
	}

	renderer, err := render.New(cfg.Location)

	if err != nil {
		return nil, err
	}

	return &content{
		client:    client,
		loader:    blog.NewLoader(client, cfg.DocumentType, cfg.PageSize),
		renderer:  renderer,
		generator: &blog.FeedGenerator{Title: cfg.SiteTitle, SiteURL: cfg.SiteURL},
	}, nil
}
