package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/ncnews/apiserver/types"
)

// articleSortColumns maps each sort enum to a fixed SQL identifier. Client
// text never reaches ORDER BY.
var articleSortColumns = map[types.ArticleSort]string{
	types.ArticleSortCreatedAt: "a.created_at",
	types.ArticleSortTitle:     "a.title",
	types.ArticleSortTopic:     "a.topic",
	types.ArticleSortAuthor:    "a.author",
	types.ArticleSortVotes:     "a.votes",
}

var sortDirections = map[types.SortOrder]string{
	types.OrderAsc:  "ASC",
	types.OrderDesc: "DESC",
}

var articleListColumns = []string{
	"a.article_id",
	"a.title",
	"a.topic",
	"a.author",
	"a.created_at",
	"a.votes",
	"a.article_img_url",
	"COUNT(c.comment_id) AS comment_count",
}

const articleReturning = "RETURNING article_id, title, topic, author, body, created_at, votes, article_img_url"

// ArticleRepository handles persistence for articles.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository constructs an ArticleRepository over db.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// List returns one page of articles with their comment counts. Bodies are
// not selected.
func (r *ArticleRepository) List(ctx context.Context, q types.ArticleQuery) ([]types.Article, error) {
	query, err := buildArticleList(q)
	if err != nil {
		return nil, err
	}

	articles := []types.Article{}
	if err := selectAll(ctx, r.db, &articles, query); err != nil {
		return nil, err
	}
	return articles, nil
}

// Count returns the number of articles matching the topic filter, ignoring
// pagination.
func (r *ArticleRepository) Count(ctx context.Context, topic string) (int, error) {
	query := psql.Select("COUNT(*)").From("articles a")
	if topic != "" {
		query = query.Where(sq.Eq{"a.topic": topic})
	}
	return count(ctx, r.db, query)
}

func (r *ArticleRepository) Get(ctx context.Context, id int) (types.Article, error) {
	columns := append([]string{"a.body"}, articleListColumns...)
	query := psql.Select(columns...).
		From("articles a").
		LeftJoin("comments c ON c.article_id = a.article_id").
		Where(sq.Eq{"a.article_id": id}).
		GroupBy("a.article_id")

	var article types.Article
	if err := selectOne(ctx, r.db, &article, query); err != nil {
		return types.Article{}, err
	}
	return article, nil
}

func (r *ArticleRepository) Exists(ctx context.Context, id int) (bool, error) {
	return exists(ctx, r.db, psql.Select("1").From("articles").Where(sq.Eq{"article_id": id}))
}

// Create inserts an article. Columns left empty fall back to their database
// defaults.
func (r *ArticleRepository) Create(ctx context.Context, article types.NewArticle) (types.Article, error) {
	values := map[string]any{
		"title":  article.Title,
		"topic":  article.Topic,
		"author": article.Author,
		"body":   article.Body,
	}
	if article.ArticleImgURL != "" {
		values["article_img_url"] = article.ArticleImgURL
	}

	query := psql.Insert("articles").SetMap(values).Suffix(articleReturning)

	var created types.Article
	if err := selectOne(ctx, r.db, &created, query); err != nil {
		return types.Article{}, err
	}
	return created, nil
}

// IncrementVotes adds delta to the article's votes in a single statement and
// returns the updated row.
func (r *ArticleRepository) IncrementVotes(ctx context.Context, id, delta int) (types.Article, error) {
	query := psql.Update("articles").
		Set("votes", sq.Expr("votes + ?", delta)).
		Where(sq.Eq{"article_id": id}).
		Suffix(articleReturning)

	var article types.Article
	if err := selectOne(ctx, r.db, &article, query); err != nil {
		return types.Article{}, err
	}
	return article, nil
}

// Delete removes an article. Its comments are removed by the ON DELETE
// CASCADE constraint.
func (r *ArticleRepository) Delete(ctx context.Context, id int) error {
	return deleteWhere(ctx, r.db, psql.Delete("articles").Where(sq.Eq{"article_id": id}))
}

func buildArticleList(q types.ArticleQuery) (sq.SelectBuilder, error) {
	column, ok := articleSortColumns[q.Sort]
	if !ok {
		return sq.SelectBuilder{}, fmt.Errorf("unsupported article sort %q", q.Sort)
	}
	direction, ok := sortDirections[q.Order]
	if !ok {
		return sq.SelectBuilder{}, fmt.Errorf("unsupported sort order %q", q.Order)
	}
	if q.Page.Limit < 1 || q.Page.Offset < 0 {
		return sq.SelectBuilder{}, fmt.Errorf("invalid page window %+v", q.Page)
	}

	query := psql.Select(articleListColumns...).
		From("articles a").
		LeftJoin("comments c ON c.article_id = a.article_id").
		GroupBy("a.article_id").
		OrderBy(column+" "+direction, "a.article_id "+direction).
		Limit(uint64(q.Page.Limit)).
		Offset(uint64(q.Page.Offset))
	if q.Topic != "" {
		query = query.Where(sq.Eq{"a.topic": q.Topic})
	}
	return query, nil
}
