package services

import (
	"context"
	"testing"

	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/store"
	"github.com/ncnews/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicService(t *testing.T) {
	svc := NewTopicService(seeded(t).Topics())
	ctx := context.Background()

	topics, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 3)
	for _, topic := range topics {
		assert.NotEmpty(t, topic.Slug)
		assert.NotEmpty(t, topic.Description)
	}

	created, err := svc.Create(ctx, types.Topic{Slug: " dogs ", Description: "Not cats"})
	require.NoError(t, err)
	assert.Equal(t, "dogs", created.Slug)

	_, err = svc.Create(ctx, types.Topic{Slug: "dogs"})
	assert.True(t, store.IsInputViolation(err))

	_, err = svc.Create(ctx, types.Topic{Description: "no slug"})
	assertKind(t, err, apperr.KindBadRequest, "Bad request")
}

func TestUserService(t *testing.T) {
	svc := NewUserService(seeded(t).Users())
	ctx := context.Background()

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	user, err := svc.Get(ctx, "icellusedkars")
	require.NoError(t, err)
	assert.Equal(t, "sam", user.Name)

	_, err = svc.Get(ctx, "ghost")
	assertKind(t, err, apperr.KindNotFound, "User not found")
}
