package main

import (
	"github.com/nDmitry/spacetraveling/internal/site"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the post list into static files",
	Long: `Render the post list into a directory that any static file server can host.

The load-more control follows pre-rendered fragments under pages/ instead of
calling back into a server.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("out", "dist", "output directory")
	buildCmd.Flags().Int("max-pages", 0, "maximum number of pages after the first, 0 for all")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	out, _ := cmd.Flags().GetString("out")
	maxPages, _ := cmd.Flags().GetInt("max-pages")

	c, err := newContent(cfg)

	if err != nil {
		return err
	}

	builder := &site.Builder{
		Loader:    c.loader,
		Fetcher:   c.client,
		Renderer:  c.renderer,
		Generator: c.generator,
		Title:     cfg.SiteTitle,
		MaxPages:  maxPages,
	}

	result, err := builder.Build(cmd.Context(), out)

	if err != nil {
		return err
	}

	cmd.Printf("Wrote %d posts in %d pages to %s\n", result.Posts, result.Fragments+1, out)

	return nil
}
