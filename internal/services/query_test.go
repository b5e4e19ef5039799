package services

import (
	"testing"

	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArticleQueryDefaults(t *testing.T) {
	q, withTotal, err := ParseArticleQuery(ListParams{})
	require.NoError(t, err)
	assert.False(t, withTotal)
	assert.Equal(t, types.ArticleQuery{
		Sort:  types.ArticleSortCreatedAt,
		Order: types.OrderDesc,
		Page:  types.Page{Limit: 10, Offset: 0},
	}, q)
}

func TestParseArticleQueryValues(t *testing.T) {
	q, withTotal, err := ParseArticleQuery(ListParams{
		SortBy:     "votes",
		Order:      "asc",
		Topic:      "cats",
		Limit:      "5",
		Page:       "3",
		TotalCount: "true",
	})
	require.NoError(t, err)
	assert.True(t, withTotal)
	assert.Equal(t, types.ArticleSortVotes, q.Sort)
	assert.Equal(t, types.OrderAsc, q.Order)
	assert.Equal(t, "cats", q.Topic)
	assert.Equal(t, types.Page{Limit: 5, Offset: 10}, q.Page)
}

func TestParseArticleQueryRejects(t *testing.T) {
	cases := map[string]ListParams{
		"unknown sort":     {SortBy: "body"},
		"injected sort":    {SortBy: "votes; DROP TABLE articles"},
		"unknown order":    {Order: "up"},
		"upper case order": {Order: "ASC"},
		"zero limit":       {Limit: "0"},
		"negative limit":   {Limit: "-1"},
		"text limit":       {Limit: "ten"},
		"zero page":        {Page: "0"},
		"fractional page":  {Page: "1.5"},
		"text page":        {Page: "two"},
		"offset overflow":  {Limit: "4611686018427387904", Page: "3"},
		"huge page":        {Page: "9223372036854775807"},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseArticleQuery(params)
			assertKind(t, err, apperr.KindBadRequest, "Bad request")
		})
	}
}

func TestParsePageLargestOffset(t *testing.T) {
	q, _, err := ParseArticleQuery(ListParams{Limit: "1", Page: "9223372036854775807"})
	require.NoError(t, err)
	assert.Equal(t, types.Page{Limit: 1, Offset: 9223372036854775806}, q.Page)

	_, _, err = ParseCommentQuery(ListParams{Limit: "4611686018427387904", Page: "3"})
	assertKind(t, err, apperr.KindBadRequest, "Bad request")
}

func TestTotalCountOnlyHonoursTrue(t *testing.T) {
	for _, raw := range []string{"", "false", "TRUE", "1", "yes", "banana"} {
		_, withTotal, err := ParseArticleQuery(ListParams{TotalCount: raw})
		require.NoError(t, err, raw)
		assert.False(t, withTotal, raw)
	}
}

func TestParseCommentQuery(t *testing.T) {
	q, withTotal, err := ParseCommentQuery(ListParams{Limit: "2", Page: "2"})
	require.NoError(t, err)
	assert.False(t, withTotal)
	assert.Equal(t, types.CommentQuery{
		Sort:  types.CommentSortCreatedAt,
		Order: types.OrderDesc,
		Page:  types.Page{Limit: 2, Offset: 2},
	}, q)

	q, _, err = ParseCommentQuery(ListParams{SortBy: "votes", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, types.CommentSortVotes, q.Sort)

	_, _, err = ParseCommentQuery(ListParams{SortBy: "title"})
	assertKind(t, err, apperr.KindBadRequest, "Bad request")
}
