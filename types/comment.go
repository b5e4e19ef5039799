package types

import "time"

// Comment is a reply attached to an article.
type Comment struct {
	CommentID int       `json:"comment_id" db:"comment_id"`
	Body      string    `json:"body" db:"body"`
	ArticleID int       `json:"article_id" db:"article_id"`
	Author    string    `json:"author" db:"author"`
	Votes     int       `json:"votes" db:"votes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewComment holds the columns written when a comment is posted.
type NewComment struct {
	ArticleID int
	Author    string
	Body      string
}
