package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/events"
	"github.com/ncnews/apiserver/internal/store"
	"github.com/ncnews/apiserver/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByArticle(ctx context.Context, articleID int, q types.CommentQuery) ([]types.Comment, error)
	CountByArticle(ctx context.Context, articleID int) (int, error)
	Get(ctx context.Context, id int) (types.Comment, error)
	Create(ctx context.Context, comment types.NewComment) (types.Comment, error)
	IncrementVotes(ctx context.Context, id, delta int) (types.Comment, error)
	Delete(ctx context.Context, id int) error
}

// ArticleLookup checks that a parent article exists.
type ArticleLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	comments CommentRepository
	articles ArticleLookup
	events   EventPublisher
}

// NewCommentService constructs a CommentService with the provided dependencies.
func NewCommentService(comments CommentRepository, articles ArticleLookup, publisher EventPublisher) *CommentService {
	return &CommentService{comments: comments, articles: articles, events: publisher}
}

// ListByArticle returns one page of an existing article's comments.
func (s *CommentService) ListByArticle(ctx context.Context, articleID int, params ListParams) (types.CommentList, error) {
	query, withTotal, err := ParseCommentQuery(params)
	if err != nil {
		return types.CommentList{}, err
	}
	if err := s.requireArticle(ctx, articleID); err != nil {
		return types.CommentList{}, err
	}

	comments, err := s.comments.ListByArticle(ctx, articleID, query)
	if err != nil {
		return types.CommentList{}, err
	}

	list := types.CommentList{Comments: comments}
	if withTotal {
		total, err := s.comments.CountByArticle(ctx, articleID)
		if err != nil {
			return types.CommentList{}, err
		}
		list.TotalCount = &total
	}
	return list, nil
}

// Create posts a comment on an article as the caller.
func (s *CommentService) Create(ctx context.Context, caller types.User, articleID int, body string) (types.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return types.Comment{}, badRequest()
	}
	if err := s.requireArticle(ctx, articleID); err != nil {
		return types.Comment{}, err
	}

	created, err := s.comments.Create(ctx, types.NewComment{
		ArticleID: articleID,
		Author:    caller.Username,
		Body:      body,
	})
	if err != nil {
		return types.Comment{}, err
	}

	publish(ctx, s.events, events.Event{
		Type:      events.CommentCreated,
		Actor:     caller.Username,
		ArticleID: articleID,
		CommentID: created.CommentID,
	})
	return created, nil
}

// IncrementVotes adds delta to the comment's votes.
func (s *CommentService) IncrementVotes(ctx context.Context, id, delta int) (types.Comment, error) {
	comment, err := s.comments.IncrementVotes(ctx, id, delta)
	if err != nil {
		return types.Comment{}, notFound(err, "Comment not found")
	}
	return comment, nil
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(ctx context.Context, caller types.User, id int) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return notFound(err, "Comment not found")
	}
	if comment.Author != caller.Username {
		return apperr.Forbidden("Forbidden")
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Comment not found")
		}
		return err
	}

	publish(ctx, s.events, events.Event{
		Type:      events.CommentDeleted,
		Actor:     caller.Username,
		ArticleID: comment.ArticleID,
		CommentID: id,
	})
	return nil
}

func (s *CommentService) requireArticle(ctx context.Context, articleID int) error {
	found, err := s.articles.Exists(ctx, articleID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("Article not found")
	}
	return nil
}
