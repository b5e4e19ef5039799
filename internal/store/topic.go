package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/ncnews/apiserver/types"
)

// TopicRepository handles persistence for topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository constructs a TopicRepository over db.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) List(ctx context.Context) ([]types.Topic, error) {
	topics := []types.Topic{}
	query := psql.Select("slug", "COALESCE(description, '') AS description").
		From("topics").
		OrderBy("slug")
	if err := selectAll(ctx, r.db, &topics, query); err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *TopicRepository) Create(ctx context.Context, topic types.Topic) (types.Topic, error) {
	var created types.Topic
	query := psql.Insert("topics").
		Columns("slug", "description").
		Values(topic.Slug, topic.Description).
		Suffix("RETURNING slug, COALESCE(description, '') AS description")
	if err := selectOne(ctx, r.db, &created, query); err != nil {
		return types.Topic{}, err
	}
	return created, nil
}

func (r *TopicRepository) Exists(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.db, psql.Select("1").From("topics").Where(sq.Eq{"slug": slug}))
}
