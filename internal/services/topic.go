package services

import (
	"context"
	"strings"

	"github.com/ncnews/apiserver/types"
)

// TopicRepository defines persistence operations for topics.
type TopicRepository interface {
	List(ctx context.Context) ([]types.Topic, error)
	Create(ctx context.Context, topic types.Topic) (types.Topic, error)
	Exists(ctx context.Context, slug string) (bool, error)
}

// TopicService encapsulates topic use-cases.
type TopicService struct {
	repo TopicRepository
}

// NewTopicService constructs a TopicService backed by repo.
func NewTopicService(repo TopicRepository) *TopicService {
	return &TopicService{repo: repo}
}

// List returns every topic.
func (s *TopicService) List(ctx context.Context) ([]types.Topic, error) {
	return s.repo.List(ctx)
}

// Create inserts a topic. A duplicate slug is rejected by the database.
func (s *TopicService) Create(ctx context.Context, topic types.Topic) (types.Topic, error) {
	topic.Slug = strings.TrimSpace(topic.Slug)
	if topic.Slug == "" {
		return types.Topic{}, badRequest()
	}
	return s.repo.Create(ctx, topic)
}
