// Package seed loads the bundled dataset into a migrated database.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/ncnews/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

//go:embed data/test.json
var testData []byte

// Article is a seed article row.
type Article struct {
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
}

// Comment is a seed comment row. Article is the 1-based position of the
// parent in Data.Articles, which is also its generated id after a reset.
type Comment struct {
	Article   int       `json:"article"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a seed user row. Passwords are derived from the username.
type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Data is a complete dataset.
type Data struct {
	Topics   []types.Topic `json:"topics"`
	Users    []User        `json:"users"`
	Articles []Article     `json:"articles"`
	Comments []Comment     `json:"comments"`
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TestData returns the bundled dataset.
func TestData() (Data, error) {
	var data Data
	if err := json.Unmarshal(testData, &data); err != nil {
		return Data{}, fmt.Errorf("decode seed data: %w", err)
	}
	return data, nil
}

// Run empties every table, resets identity sequences and inserts data in a
// single transaction.
func Run(ctx context.Context, db *sqlx.DB, data Data) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `TRUNCATE comments, articles, users, topics RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}

	if len(data.Topics) > 0 {
		insert := psql.Insert("topics").Columns("slug", "description")
		for _, topic := range data.Topics {
			insert = insert.Values(topic.Slug, topic.Description)
		}
		if err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("insert topics: %w", err)
		}
	}

	if len(data.Users) > 0 {
		insert := psql.Insert("users").Columns("username", "name", "avatar_url", "password")
		for _, user := range data.Users {
			hashed, err := bcrypt.GenerateFromPassword([]byte(user.Username), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", user.Username, err)
			}
			insert = insert.Values(user.Username, user.Name, user.AvatarURL, string(hashed))
		}
		if err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("insert users: %w", err)
		}
	}

	if len(data.Articles) > 0 {
		insert := psql.Insert("articles").
			Columns("title", "topic", "author", "body", "created_at", "votes", "article_img_url")
		for _, article := range data.Articles {
			imgURL := article.ArticleImgURL
			if imgURL == "" {
				imgURL = types.DefaultArticleImageURL
			}
			insert = insert.Values(article.Title, article.Topic, article.Author, article.Body,
				article.CreatedAt, article.Votes, imgURL)
		}
		if err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("insert articles: %w", err)
		}
	}

	if len(data.Comments) > 0 {
		insert := psql.Insert("comments").Columns("body", "author", "article_id", "votes", "created_at")
		for i, comment := range data.Comments {
			if comment.Article < 1 || comment.Article > len(data.Articles) {
				return fmt.Errorf("comment %d references unknown article %d", i+1, comment.Article)
			}
			insert = insert.Values(comment.Body, comment.Author, comment.Article, comment.Votes, comment.CreatedAt)
		}
		if err := exec(ctx, tx, insert); err != nil {
			return fmt.Errorf("insert comments: %w", err)
		}
	}

	return tx.Commit()
}

func exec(ctx context.Context, tx *sqlx.Tx, insert sq.InsertBuilder) error {
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
