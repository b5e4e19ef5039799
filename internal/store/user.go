package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/ncnews/apiserver/types"
)

// UserRepository handles persistence for users and their credentials.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository over db.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	users := []types.User{}
	query := psql.Select("username", "name", "COALESCE(avatar_url, '') AS avatar_url").
		From("users").
		OrderBy("username")
	if err := selectAll(ctx, r.db, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByUsername returns the user including the stored password hash.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	var user types.User
	query := psql.Select("username", "name", "COALESCE(avatar_url, '') AS avatar_url", "COALESCE(password, '') AS password").
		From("users").
		Where("username = ?", username)
	if err := selectOne(ctx, r.db, &user, query); err != nil {
		return types.User{}, err
	}
	return user, nil
}
