package blog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nDmitry/spacetraveling/internal/blog"
	"github.com/nDmitry/spacetraveling/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockQuerier is a mock implementation of the Querier interface
type MockQuerier struct {
	QueryByTypeFunc func(ctx context.Context, documentType string, opts entity.QueryOptions) (*entity.PostPagination, error)
}

func (m *MockQuerier) QueryByType(ctx context.Context, documentType string, opts entity.QueryOptions) (*entity.PostPagination, error) {
	return m.QueryByTypeFunc(ctx, documentType, opts)
}

func TestLoader_Load(t *testing.T) {
	querier := &MockQuerier{
		QueryByTypeFunc: func(_ context.Context, documentType string, opts entity.QueryOptions) (*entity.PostPagination, error) {
			assert.Equal(t, "posts", documentType)
			assert.Equal(t, []string{"title", "subtitle", "author"}, opts.Fetch)
			assert.Equal(t, 5, opts.PageSize)

			return &entity.PostPagination{
				NextPage: "/page2",
				Results:  []entity.Post{{UID: "a"}, {UID: "b"}},
			}, nil
		},
	}

	page, err := blog.NewLoader(querier, "posts", 5).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/page2", page.NextPage)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "a", page.Results[0].UID)
	assert.Equal(t, "b", page.Results[1].UID)
}

func TestLoader_LoadError(t *testing.T) {
	upstream := errors.New("connection refused")

	querier := &MockQuerier{
		QueryByTypeFunc: func(context.Context, string, entity.QueryOptions) (*entity.PostPagination, error) {
			return nil, upstream
		},
	}

	_, err := blog.NewLoader(querier, "posts", 5).Load(context.Background())
	assert.ErrorIs(t, err, upstream)
}
