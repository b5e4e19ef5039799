package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/types"
)

const (
	defaultLimit = 10
	defaultPage  = 1
)

// ListParams carries the raw query-string values of a list request.
type ListParams struct {
	SortBy     string
	Order      string
	Topic      string
	Limit      string
	Page       string
	TotalCount string
}

var articleSorts = map[string]types.ArticleSort{
	"created_at": types.ArticleSortCreatedAt,
	"title":      types.ArticleSortTitle,
	"topic":      types.ArticleSortTopic,
	"author":     types.ArticleSortAuthor,
	"votes":      types.ArticleSortVotes,
}

var commentSorts = map[string]types.CommentSort{
	"created_at": types.CommentSortCreatedAt,
	"author":     types.CommentSortAuthor,
	"votes":      types.CommentSortVotes,
}

var sortOrders = map[string]types.SortOrder{
	"asc":  types.OrderAsc,
	"desc": types.OrderDesc,
}

// ParseArticleQuery validates article list parameters. The returned flag
// reports whether the total count was requested.
func ParseArticleQuery(p ListParams) (types.ArticleQuery, bool, error) {
	sort := types.ArticleSortCreatedAt
	if p.SortBy != "" {
		var ok bool
		if sort, ok = articleSorts[p.SortBy]; !ok {
			return types.ArticleQuery{}, false, badRequest()
		}
	}

	order, err := parseOrder(p.Order)
	if err != nil {
		return types.ArticleQuery{}, false, err
	}
	page, err := parsePage(p.Limit, p.Page)
	if err != nil {
		return types.ArticleQuery{}, false, err
	}

	return types.ArticleQuery{
		Topic: p.Topic,
		Sort:  sort,
		Order: order,
		Page:  page,
	}, wantsTotal(p.TotalCount), nil
}

// ParseCommentQuery validates comment list parameters. Topic is ignored.
func ParseCommentQuery(p ListParams) (types.CommentQuery, bool, error) {
	sort := types.CommentSortCreatedAt
	if p.SortBy != "" {
		var ok bool
		if sort, ok = commentSorts[p.SortBy]; !ok {
			return types.CommentQuery{}, false, badRequest()
		}
	}

	order, err := parseOrder(p.Order)
	if err != nil {
		return types.CommentQuery{}, false, err
	}
	page, err := parsePage(p.Limit, p.Page)
	if err != nil {
		return types.CommentQuery{}, false, err
	}

	return types.CommentQuery{Sort: sort, Order: order, Page: page}, wantsTotal(p.TotalCount), nil
}

func parseOrder(raw string) (types.SortOrder, error) {
	if raw == "" {
		return types.OrderDesc, nil
	}
	order, ok := sortOrders[raw]
	if !ok {
		return "", badRequest()
	}
	return order, nil
}

func parsePage(rawLimit, rawPage string) (types.Page, error) {
	limit, err := positiveInt(rawLimit, defaultLimit)
	if err != nil {
		return types.Page{}, err
	}
	page, err := positiveInt(rawPage, defaultPage)
	if err != nil {
		return types.Page{}, err
	}
	// the offset must fit in an int
	if page-1 > math.MaxInt/limit {
		return types.Page{}, badRequest()
	}
	return types.Page{Limit: limit, Offset: limit * (page - 1)}, nil
}

func positiveInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, badRequest()
	}
	return value, nil
}

// wantsTotal only honours the literal "true"; anything else is ignored.
func wantsTotal(raw string) bool {
	return raw == "true"
}

func badRequest() error {
	return apperr.BadRequest("Bad request")
}
