package services

import (
	"context"
	"strings"

	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/events"
	"github.com/ncnews/apiserver/types"
)

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	List(ctx context.Context, q types.ArticleQuery) ([]types.Article, error)
	Count(ctx context.Context, topic string) (int, error)
	Get(ctx context.Context, id int) (types.Article, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, article types.NewArticle) (types.Article, error)
	IncrementVotes(ctx context.Context, id, delta int) (types.Article, error)
	Delete(ctx context.Context, id int) error
}

// ArticleService encapsulates article use-cases.
type ArticleService struct {
	articles ArticleRepository
	topics   TopicRepository
	events   EventPublisher
}

// NewArticleService constructs an ArticleService with the provided dependencies.
func NewArticleService(articles ArticleRepository, topics TopicRepository, publisher EventPublisher) *ArticleService {
	return &ArticleService{articles: articles, topics: topics, events: publisher}
}

// List validates the parameters and returns one page of articles. A topic
// filter naming no topic is a 404; an existing topic without articles is an
// empty page.
func (s *ArticleService) List(ctx context.Context, params ListParams) (types.ArticleList, error) {
	query, withTotal, err := ParseArticleQuery(params)
	if err != nil {
		return types.ArticleList{}, err
	}

	if query.Topic != "" {
		found, err := s.topics.Exists(ctx, query.Topic)
		if err != nil {
			return types.ArticleList{}, err
		}
		if !found {
			return types.ArticleList{}, apperr.NotFound("Topic not found")
		}
	}

	articles, err := s.articles.List(ctx, query)
	if err != nil {
		return types.ArticleList{}, err
	}

	list := types.ArticleList{Articles: articles}
	if withTotal {
		total, err := s.articles.Count(ctx, query.Topic)
		if err != nil {
			return types.ArticleList{}, err
		}
		list.TotalCount = &total
	}
	return list, nil
}

// Get returns a single article with its body and comment count.
func (s *ArticleService) Get(ctx context.Context, id int) (types.Article, error) {
	article, err := s.articles.Get(ctx, id)
	if err != nil {
		return types.Article{}, notFound(err, "Article not found")
	}
	return article, nil
}

// Create inserts an article written by author. The author defaults to the
// caller when the request leaves it empty.
func (s *ArticleService) Create(ctx context.Context, caller types.User, article types.NewArticle) (types.Article, error) {
	article.Title = strings.TrimSpace(article.Title)
	article.Topic = strings.TrimSpace(article.Topic)
	article.Author = strings.TrimSpace(article.Author)
	article.ArticleImgURL = strings.TrimSpace(article.ArticleImgURL)
	if article.Author == "" {
		article.Author = caller.Username
	}
	if article.Title == "" || article.Topic == "" || strings.TrimSpace(article.Body) == "" || article.Author == "" {
		return types.Article{}, badRequest()
	}

	created, err := s.articles.Create(ctx, article)
	if err != nil {
		return types.Article{}, err
	}

	publish(ctx, s.events, events.Event{
		Type:      events.ArticleCreated,
		Actor:     caller.Username,
		ArticleID: created.ArticleID,
	})
	return created, nil
}

// IncrementVotes adds delta to the article's votes.
func (s *ArticleService) IncrementVotes(ctx context.Context, id, delta int) (types.Article, error) {
	article, err := s.articles.IncrementVotes(ctx, id, delta)
	if err != nil {
		return types.Article{}, notFound(err, "Article not found")
	}
	return article, nil
}

// Delete removes an article together with its comments.
func (s *ArticleService) Delete(ctx context.Context, caller types.User, id int) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		return notFound(err, "Article not found")
	}

	publish(ctx, s.events, events.Event{
		Type:      events.ArticleDeleted,
		Actor:     caller.Username,
		ArticleID: id,
	})
	return nil
}
