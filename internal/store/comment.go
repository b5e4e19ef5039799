package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/ncnews/apiserver/types"
)

var commentSortColumns = map[types.CommentSort]string{
	types.CommentSortCreatedAt: "created_at",
	types.CommentSortAuthor:    "author",
	types.CommentSortVotes:     "votes",
}

var commentColumns = []string{"comment_id", "body", "article_id", "author", "votes", "created_at"}

const commentReturning = "RETURNING comment_id, body, article_id, author, votes, created_at"

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository constructs a CommentRepository over db.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByArticle returns one page of comments for an article.
func (r *CommentRepository) ListByArticle(ctx context.Context, articleID int, q types.CommentQuery) ([]types.Comment, error) {
	query, err := buildCommentList(articleID, q)
	if err != nil {
		return nil, err
	}

	comments := []types.Comment{}
	if err := selectAll(ctx, r.db, &comments, query); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByArticle returns how many comments an article has.
func (r *CommentRepository) CountByArticle(ctx context.Context, articleID int) (int, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("comments").Where(sq.Eq{"article_id": articleID}))
}

func (r *CommentRepository) Get(ctx context.Context, id int) (types.Comment, error) {
	query := psql.Select(commentColumns...).From("comments").Where(sq.Eq{"comment_id": id})

	var comment types.Comment
	if err := selectOne(ctx, r.db, &comment, query); err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment types.NewComment) (types.Comment, error) {
	query := psql.Insert("comments").
		Columns("article_id", "author", "body").
		Values(comment.ArticleID, comment.Author, comment.Body).
		Suffix(commentReturning)

	var created types.Comment
	if err := selectOne(ctx, r.db, &created, query); err != nil {
		return types.Comment{}, err
	}
	return created, nil
}

// IncrementVotes adds delta to the comment's votes in a single statement.
func (r *CommentRepository) IncrementVotes(ctx context.Context, id, delta int) (types.Comment, error) {
	query := psql.Update("comments").
		Set("votes", sq.Expr("votes + ?", delta)).
		Where(sq.Eq{"comment_id": id}).
		Suffix(commentReturning)

	var comment types.Comment
	if err := selectOne(ctx, r.db, &comment, query); err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	return deleteWhere(ctx, r.db, psql.Delete("comments").Where(sq.Eq{"comment_id": id}))
}

func buildCommentList(articleID int, q types.CommentQuery) (sq.SelectBuilder, error) {
	column, ok := commentSortColumns[q.Sort]
	if !ok {
		return sq.SelectBuilder{}, fmt.Errorf("unsupported comment sort %q", q.Sort)
	}
	direction, ok := sortDirections[q.Order]
	if !ok {
		return sq.SelectBuilder{}, fmt.Errorf("unsupported sort order %q", q.Order)
	}
	if q.Page.Limit < 1 || q.Page.Offset < 0 {
		return sq.SelectBuilder{}, fmt.Errorf("invalid page window %+v", q.Page)
	}

	return psql.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"article_id": articleID}).
		OrderBy(column+" "+direction, "comment_id "+direction).
		Limit(uint64(q.Page.Limit)).
		Offset(uint64(q.Page.Offset)), nil
}
