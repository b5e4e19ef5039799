// Package storetest provides in-memory repositories with the same contract
// as the PostgreSQL ones in package store, for handler and service tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/ncnews/apiserver/internal/store"
	"github.com/ncnews/apiserver/types"
)

// Memory holds the rows shared by the repositories it hands out.
type Memory struct {
	mu          sync.Mutex
	topics      []types.Topic
	users       []types.User
	articles    []types.Article
	comments    []types.Comment
	nextArticle int
	nextComment int
	clock       time.Time

	// Err, when set, is returned by every repository call.
	Err error
}

// New returns an empty in-memory store.
func New() *Memory {
	return &Memory{
		nextArticle: 1,
		nextComment: 1,
		clock:       time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *Memory) AddTopic(topic types.Topic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
}

func (m *Memory) AddUser(user types.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, user)
}

// AddArticle stores an article, assigning the next id and a creation time
// when they are zero.
func (m *Memory) AddArticle(article types.Article) types.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertArticle(article)
}

// AddComment stores a comment, assigning the next id and a creation time
// when they are zero.
func (m *Memory) AddComment(comment types.Comment) types.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertComment(comment)
}

func (m *Memory) Users() *Users       { return &Users{m} }
func (m *Memory) Topics() *Topics     { return &Topics{m} }
func (m *Memory) Articles() *Articles { return &Articles{m} }
func (m *Memory) Comments() *Comments { return &Comments{m} }

func (m *Memory) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *Memory) insertArticle(article types.Article) types.Article {
	if article.ArticleID == 0 {
		article.ArticleID = m.nextArticle
	}
	if article.ArticleID >= m.nextArticle {
		m.nextArticle = article.ArticleID + 1
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = m.tick()
	}
	if article.ArticleImgURL == "" {
		article.ArticleImgURL = types.DefaultArticleImageURL
	}
	article.CommentCount = 0
	m.articles = append(m.articles, article)
	return article
}

func (m *Memory) insertComment(comment types.Comment) types.Comment {
	if comment.CommentID == 0 {
		comment.CommentID = m.nextComment
	}
	if comment.CommentID >= m.nextComment {
		m.nextComment = comment.CommentID + 1
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = m.tick()
	}
	m.comments = append(m.comments, comment)
	return comment
}

func (m *Memory) hasUser(username string) bool {
	for _, u := range m.users {
		if u.Username == username {
			return true
		}
	}
	return false
}

func (m *Memory) hasTopic(slug string) bool {
	for _, t := range m.topics {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (m *Memory) articleIndex(id int) int {
	for i, a := range m.articles {
		if a.ArticleID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) commentIndex(id int) int {
	for i, c := range m.comments {
		if c.CommentID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) withCount(article types.Article) types.Article {
	article.CommentCount = 0
	for _, c := range m.comments {
		if c.ArticleID == article.ArticleID {
			article.CommentCount++
		}
	}
	return article
}

func violation(code string) error {
	return &pq.Error{Code: pq.ErrorCode(code)}
}

func paginate[T any](rows []T, page types.Page) []T {
	if page.Offset >= len(rows) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return append([]T{}, rows[page.Offset:end]...)
}

// less orders two rows by a primary key and breaks ties by id, honouring
// the direction for both keys like the SQL queries do.
func less(cmp, idA, idB int, order types.SortOrder) bool {
	if cmp == 0 {
		cmp = idA - idB
	}
	if order == types.OrderAsc {
		return cmp < 0
	}
	return cmp > 0
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

// Users implements the user repository.
type Users struct{ m *Memory }

func (r *Users) List(context.Context) ([]types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	users := append([]types.User{}, r.m.users...)
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (r *Users) GetByUsername(_ context.Context, username string) (types.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.User{}, r.m.Err
	}
	for _, u := range r.m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

// Topics implements the topic repository.
type Topics struct{ m *Memory }

func (r *Topics) List(context.Context) ([]types.Topic, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}
	topics := append([]types.Topic{}, r.m.topics...)
	sort.Slice(topics, func(i, j int) bool { return topics[i].Slug < topics[j].Slug })
	return topics, nil
}

func (r *Topics) Create(_ context.Context, topic types.Topic) (types.Topic, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.Topic{}, r.m.Err
	}
	if r.m.hasTopic(topic.Slug) {
		return types.Topic{}, violation(store.CodeUniqueViolation)
	}
	r.m.topics = append(r.m.topics, topic)
	return topic, nil
}

func (r *Topics) Exists(_ context.Context, slug string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return false, r.m.Err
	}
	return r.m.hasTopic(slug), nil
}

// Articles implements the article repository.
type Articles struct{ m *Memory }

func (r *Articles) List(_ context.Context, q types.ArticleQuery) ([]types.Article, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}

	articles := []types.Article{}
	for _, a := range r.m.articles {
		if q.Topic != "" && a.Topic != q.Topic {
			continue
		}
		a = r.m.withCount(a)
		a.Body = ""
		articles = append(articles, a)
	}

	sort.Slice(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		var cmp int
		switch q.Sort {
		case types.ArticleSortTitle:
			cmp = strings.Compare(a.Title, b.Title)
		case types.ArticleSortTopic:
			cmp = strings.Compare(a.Topic, b.Topic)
		case types.ArticleSortAuthor:
			cmp = strings.Compare(a.Author, b.Author)
		case types.ArticleSortVotes:
			cmp = a.Votes - b.Votes
		default:
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		}
		return less(cmp, a.ArticleID, b.ArticleID, q.Order)
	})
	return paginate(articles, q.Page), nil
}

func (r *Articles) Count(_ context.Context, topic string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return 0, r.m.Err
	}
	total := 0
	for _, a := range r.m.articles {
		if topic == "" || a.Topic == topic {
			total++
		}
	}
	return total, nil
}

func (r *Articles) Get(_ context.Context, id int) (types.Article, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.Article{}, r.m.Err
	}
	i := r.m.articleIndex(id)
	if i < 0 {
		return types.Article{}, store.ErrNotFound
	}
	return r.m.withCount(r.m.articles[i]), nil
}

func (r *Articles) Exists(_ context.Context, id int) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return false, r.m.Err
	}
	return r.m.articleIndex(id) >= 0, nil
}

func (r *Articles) Create(_ context.Context, article types.NewArticle) (types.Article, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.Article{}, r.m.Err
	}
	if !r.m.hasTopic(article.Topic) || !r.m.hasUser(article.Author) {
		return types.Article{}, violation(store.CodeForeignKeyViolation)
	}
	return r.m.insertArticle(types.Article{
		Title:         article.Title,
		Topic:         article.Topic,
		Author:        article.Author,
		Body:          article.Body,
		ArticleImgURL: article.ArticleImgURL,
	}), nil
}

func (r *Articles) IncrementVotes(_ context.Context, id, delta int) (types.Article, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.Article{}, r.m.Err
	}
	i := r.m.articleIndex(id)
	if i < 0 {
		return types.Article{}, store.ErrNotFound
	}
	r.m.articles[i].Votes += delta
	article := r.m.articles[i]
	article.CommentCount = 0
	return article, nil
}

// Delete removes the article and, like ON DELETE CASCADE, its comments.
func (r *Articles) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return r.m.Err
	}
	i := r.m.articleIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	r.m.articles = append(r.m.articles[:i], r.m.articles[i+1:]...)

	kept := r.m.comments[:0]
	for _, c := range r.m.comments {
		if c.ArticleID != id {
			kept = append(kept, c)
		}
	}
	r.m.comments = kept
	return nil
}

// Comments implements the comment repository.
type Comments struct{ m *Memory }

func (r *Comments) ListByArticle(_ context.Context, articleID int, q types.CommentQuery) ([]types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return nil, r.m.Err
	}

	comments := []types.Comment{}
	for _, c := range r.m.comments {
		if c.ArticleID == articleID {
			comments = append(comments, c)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		var cmp int
		switch q.Sort {
		case types.CommentSortAuthor:
			cmp = strings.Compare(a.Author, b.Author)
		case types.CommentSortVotes:
			cmp = a.Votes - b.Votes
		default:
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		}
		return less(cmp, a.CommentID, b.CommentID, q.Order)
	})
	return paginate(comments, q.Page), nil
}

func (r *Comments) CountByArticle(_ context.Context, articleID int) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return 0, r.m.Err
	}
	total := 0
	for _, c := range r.m.comments {
		if c.ArticleID == articleID {
			total++
		}
	}
	return total, nil
}

func (r *Comments) Get(_ context.Context, id int) (types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.Comment{}, r.m.Err
	}
	i := r.m.commentIndex(id)
	if i < 0 {
		return types.Comment{}, store.ErrNotFound
	}
	return r.m.comments[i], nil
}

func (r *Comments) Create(_ context.Context, comment types.NewComment) (types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.Comment{}, r.m.Err
	}
	if r.m.articleIndex(comment.ArticleID) < 0 || !r.m.hasUser(comment.Author) {
		return types.Comment{}, violation(store.CodeForeignKeyViolation)
	}
	return r.m.insertComment(types.Comment{
		ArticleID: comment.ArticleID,
		Author:    comment.Author,
		Body:      comment.Body,
	}), nil
}

func (r *Comments) IncrementVotes(_ context.Context, id, delta int) (types.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return types.Comment{}, r.m.Err
	}
	i := r.m.commentIndex(id)
	if i < 0 {
		return types.Comment{}, store.ErrNotFound
	}
	r.m.comments[i].Votes += delta
	return r.m.comments[i], nil
}

func (r *Comments) Delete(_ context.Context, id int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.Err != nil {
		return r.m.Err
	}
	i := r.m.commentIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	r.m.comments = append(r.m.comments[:i], r.m.comments[i+1:]...)
	return nil
}
