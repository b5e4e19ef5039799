package storetest

import (
	"github.com/ncnews/apiserver/internal/db/seed"
	"github.com/ncnews/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// Seeded returns a Memory loaded with the bundled seed dataset. As in the
// database seed, every password equals the username.
func Seeded() (*Memory, error) {
	data, err := seed.TestData()
	if err != nil {
		return nil, err
	}

	m := New()
	for _, topic := range data.Topics {
		m.AddTopic(topic)
	}
	for _, u := range data.Users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Username), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		m.AddUser(types.User{
			Username:  u.Username,
			Name:      u.Name,
			AvatarURL: u.AvatarURL,
			Password:  string(hashed),
		})
	}
	for _, a := range data.Articles {
		m.AddArticle(types.Article{
			Title:         a.Title,
			Topic:         a.Topic,
			Author:        a.Author,
			Body:          a.Body,
			CreatedAt:     a.CreatedAt,
			Votes:         a.Votes,
			ArticleImgURL: a.ArticleImgURL,
		})
	}
	for _, c := range data.Comments {
		m.AddComment(types.Comment{
			ArticleID: c.Article,
			Author:    c.Author,
			Body:      c.Body,
			Votes:     c.Votes,
			CreatedAt: c.CreatedAt,
		})
	}
	return m, nil
}
