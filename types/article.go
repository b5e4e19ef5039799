package types

import "time"

// DefaultArticleImageURL is applied by the database when an article is
// created without an image.
const DefaultArticleImageURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"

// Article is a piece of content posted under a topic by a user.
type Article struct {
	// ArticleID is the generated identifier of the article.
	ArticleID int `json:"article_id" db:"article_id"`

	// Title is the headline of the article.
	Title string `json:"title" db:"title"`

	// Topic is the slug of the topic the article belongs to.
	Topic string `json:"topic" db:"topic"`

	// Author is the username of the user who wrote the article.
	Author string `json:"author" db:"author"`

	// Body is the full text of the article. It is omitted from list views.
	Body string `json:"body,omitempty" db:"body"`

	// CreatedAt is set by the database when the article is inserted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Votes is a free integer changed only by relative increments.
	Votes int `json:"votes" db:"votes"`

	// ArticleImgURL is the cover image of the article.
	ArticleImgURL string `json:"article_img_url" db:"article_img_url"`

	// CommentCount is the number of comments attached to the article.
	CommentCount int `json:"comment_count" db:"comment_count"`
}

// NewArticle holds the client-supplied columns accepted when inserting an
// article. An empty ArticleImgURL leaves the database default in place.
type NewArticle struct {
	Title         string
	Topic         string
	Author        string
	Body          string
	ArticleImgURL string
}
