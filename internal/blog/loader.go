package blog

import (
	"context"
	"fmt"

	"github.com/nDmitry/spacetraveling/internal/entity"
)

// Fields requested for every listed post
var listFields = []string{"title", "subtitle", "author"}

// Querier runs document queries against the content repository
type Querier interface {
	QueryByType(ctx context.Context, documentType string, opts entity.QueryOptions) (*entity.PostPagination, error)
}

// Loader fetches the first page of posts.
type Loader struct {
	querier      Querier
	documentType string
	pageSize     int
}

func NewLoader(q Querier, documentType string, pageSize int) *Loader {
	return &Loader{
		querier:      q,
		documentType: documentType,
		pageSize:     pageSize,
	}
}

// Load returns the first page with its cursor and raw results.
func (l *Loader) Load(ctx context.Context) (*entity.PostPagination, error) {
	res, err := l.querier.QueryByType(ctx, l.documentType, entity.QueryOptions{
		Fetch:    listFields,
		PageSize: l.pageSize,
	})

	if err != nil {
		return nil, fmt.Errorf("could not query %s: %w", l.documentType, err)
	}

	return &entity.PostPagination{
		NextPage: res.NextPage,
		Results:  res.Results,
	}, nil
}
