package blog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/nDmitry/spacetraveling/internal/blog"
	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedPosts = []entity.DisplayPost{
	{
		Slug:      "como-utilizar-hooks",
		Title:     "Como utilizar Hooks",
		Subtitle:  "Pensando em <b>sincronização</b> em vez de ciclos de vida",
		Author:    "Joseph Oliveira",
		CreatedAt: time.Date(2021, 3, 15, 19, 25, 28, 0, time.UTC),
	},
	{
		Slug:      "criando-um-app-cra-do-zero",
		Title:     "Criando um app CRA do zero",
		Subtitle:  "Tudo sobre como criar a sua primeira aplicação utilizando Create React App",
		Author:    "Danilo Vieira",
		CreatedAt: time.Date(2021, 3, 19, 10, 0, 0, 0, time.UTC),
	},
}

func TestFeedGenerator_Generate(t *testing.T) {
	generator := &blog.FeedGenerator{Title: "spacetraveling", SiteURL: "https://blog.example.com/"}

	for _, format := range []string{entity.FormatRSS, entity.FormatAtom} {
		t.Run(format, func(t *testing.T) {
			content, err := generator.Generate(feedPosts, &entity.FeedParams{Format: format})
			require.NoError(t, err)

			parsed, err := gofeed.NewParser().ParseString(string(content))
			require.NoError(t, err)

			assert.Equal(t, format, parsed.FeedType)
			assert.Equal(t, "spacetraveling", parsed.Title)
			require.Len(t, parsed.Items, 2)

			item := parsed.Items[0]
			assert.Equal(t, "Como utilizar Hooks", item.Title)
			assert.Equal(t, "https://blog.example.com/post/como-utilizar-hooks", item.Link)
			assert.Equal(t, "Pensando em sincronização em vez de ciclos de vida", item.Description)
			require.NotNil(t, item.PublishedParsed)
			assert.True(t, feedPosts[0].CreatedAt.Equal(*item.PublishedParsed))

			assert.Equal(t, "https://blog.example.com/post/criando-um-app-cra-do-zero", parsed.Items[1].Link)
		})
	}
}

func TestFeedGenerator_UnsupportedFormat(t *testing.T) {
	generator := &blog.FeedGenerator{Title: "spacetraveling", SiteURL: "https://blog.example.com"}

	_, err := generator.Generate(feedPosts, &entity.FeedParams{Format: "json"})
	assert.EqualError(t, err, "unsupported feed format: json")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Tudo sobre React & Next", blog.Excerpt("  Tudo sobre <i>React</i> &amp;\n Next "))

	long := strings.Repeat("palavra ", 40)
	excerpt := blog.Excerpt(long)

	assert.True(t, strings.HasSuffix(excerpt, "…"))
	assert.LessOrEqual(t, len([]rune(excerpt)), 161)
}
