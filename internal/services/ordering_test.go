package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ncnews/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ordered reports whether two adjacent rows respect order, breaking ties on
// the id in the same direction.
func ordered(cmp, prevID, id int, order string) bool {
	if cmp == 0 {
		cmp = prevID - id
	}
	if order == "asc" {
		return cmp < 0
	}
	return cmp > 0
}

func TestArticleListOrdering(t *testing.T) {
	svc, _ := newArticleService(t)

	compare := map[string]func(a, b types.Article) int{
		"created_at": func(a, b types.Article) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"title":      func(a, b types.Article) int { return strings.Compare(a.Title, b.Title) },
		"topic":      func(a, b types.Article) int { return strings.Compare(a.Topic, b.Topic) },
		"author":     func(a, b types.Article) int { return strings.Compare(a.Author, b.Author) },
		"votes":      func(a, b types.Article) int { return a.Votes - b.Votes },
	}

	for sortBy, cmp := range compare {
		for _, order := range []string{"asc", "desc"} {
			t.Run(sortBy+" "+order, func(t *testing.T) {
				list, err := svc.List(context.Background(), ListParams{SortBy: sortBy, Order: order, Limit: "100"})
				require.NoError(t, err)
				require.Len(t, list.Articles, 13)
				for i := 1; i < len(list.Articles); i++ {
					prev, cur := list.Articles[i-1], list.Articles[i]
					assert.True(t, ordered(cmp(prev, cur), prev.ArticleID, cur.ArticleID, order),
						"article %d before %d", prev.ArticleID, cur.ArticleID)
				}
			})
		}
	}
}

func TestCommentListOrdering(t *testing.T) {
	svc, _ := newCommentService(t)

	compare := map[string]func(a, b types.Comment) int{
		"created_at": func(a, b types.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"author":     func(a, b types.Comment) int { return strings.Compare(a.Author, b.Author) },
		"votes":      func(a, b types.Comment) int { return a.Votes - b.Votes },
	}

	for sortBy, cmp := range compare {
		for _, order := range []string{"asc", "desc"} {
			t.Run(sortBy+" "+order, func(t *testing.T) {
				list, err := svc.ListByArticle(context.Background(), 1, ListParams{SortBy: sortBy, Order: order, Limit: "100"})
				require.NoError(t, err)
				require.Len(t, list.Comments, 11)
				for i := 1; i < len(list.Comments); i++ {
					prev, cur := list.Comments[i-1], list.Comments[i]
					assert.True(t, ordered(cmp(prev, cur), prev.CommentID, cur.CommentID, order),
						"comment %d before %d", prev.CommentID, cur.CommentID)
				}
			})
		}
	}
}
