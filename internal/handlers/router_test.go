package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ncnews/apiserver/internal/events"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/ncnews/apiserver/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	memory *storetest.Memory
}

func newTestAPI(t *testing.T, configure ...func(*Dependencies)) *testAPI {
	t.Helper()
	m, err := storetest.Seeded()
	require.NoError(t, err)

	auth, err := services.NewAuthService(m.Users(), "test-secret", time.Hour)
	require.NoError(t, err)
	endpoints, err := LoadEndpoints()
	require.NoError(t, err)

	deps := Dependencies{
		Auth:      auth,
		Users:     services.NewUserService(m.Users()),
		Topics:    services.NewTopicService(m.Topics()),
		Articles:  services.NewArticleService(m.Articles(), m.Topics(), events.Discard{}),
		Comments:  services.NewCommentService(m.Comments(), m.Articles(), events.Discard{}),
		Endpoints: endpoints,
	}
	for _, fn := range configure {
		fn(&deps)
	}
	return &testAPI{t: t, router: NewRouter(deps), memory: m}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(username string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/login", "", map[string]string{"username": username, "password": username})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp TokenResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertMsg(t *testing.T, rec *httptest.ResponseRecorder, status int, msg string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, msg, decode[ErrorResponse](t, rec).Msg)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	token := api.login("butter_bridge")
	assert.NotEmpty(t, token)

	rec := api.do(http.MethodPost, "/api/login", "", map[string]string{"username": "lurker", "password": "lurker"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/login", "", map[string]string{"username": "butter_bridge", "password": "nope"})
	assertMsg(t, rec, http.StatusUnauthorized, "Invalid credentials")

	rec = api.do(http.MethodPost, "/login", "", map[string]string{"username": "ghost", "password": "ghost"})
	assertMsg(t, rec, http.StatusUnauthorized, "Invalid credentials")

	rec = api.do(http.MethodPost, "/login", "", map[string]string{"username": "butter_bridge"})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/login", "", "{not json")
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestAuthMiddlewareStates(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/articles", "", nil)
	assertMsg(t, rec, http.StatusForbidden, "No token provided")

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	basic := httptest.NewRecorder()
	api.router.ServeHTTP(basic, req)
	assertMsg(t, basic, http.StatusForbidden, "Failed to authenticate token")

	rec = api.do(http.MethodGet, "/api/articles", "garbage", nil)
	assertMsg(t, rec, http.StatusForbidden, "Failed to authenticate token")

	other, err := services.NewAuthService(api.memory.Users(), "other-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Authenticate(t.Context(), "lurker", "lurker")
	require.NoError(t, err)
	rec = api.do(http.MethodGet, "/api/articles", forged, nil)
	assertMsg(t, rec, http.StatusForbidden, "Failed to authenticate token")
}

func TestAuthMiddlewareUnknownUser(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("lurker")

	// A second store without lurker behind the same secret.
	empty := storetest.New()
	auth, err := services.NewAuthService(empty.Users(), "test-secret", time.Hour)
	require.NoError(t, err)
	router := NewRouter(Dependencies{
		Auth:     auth,
		Users:    services.NewUserService(empty.Users()),
		Topics:   services.NewTopicService(empty.Topics()),
		Articles: services.NewArticleService(empty.Articles(), empty.Topics(), nil),
		Comments: services.NewCommentService(empty.Comments(), empty.Articles(), nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assertMsg(t, rec, http.StatusForbidden, "User not found")
}

func TestTopics(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("butter_bridge")

	rec := api.do(http.MethodGet, "/api/topics", "", nil)
	assertMsg(t, rec, http.StatusForbidden, "No token provided")

	rec = api.do(http.MethodGet, "/api/topics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	topics := decode[TopicsResponse](t, rec).Topics
	require.Len(t, topics, 3)
	for _, topic := range topics {
		assert.NotEmpty(t, topic.Slug)
		assert.NotEmpty(t, topic.Description)
	}

	rec = api.do(http.MethodPost, "/api/topics", token, map[string]string{"slug": "dogs", "description": "Not cats"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "dogs", decode[TopicResponse](t, rec).Topic.Slug)

	rec = api.do(http.MethodPost, "/api/topics", token, map[string]string{"slug": "dogs", "description": "again"})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/topics", token, map[string]string{"description": "no slug"})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/topics", token, map[string]string{"slug": "x", "owner": "me"})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestPublicTopics(t *testing.T) {
	api := newTestAPI(t, func(d *Dependencies) { d.PublicTopics = true })

	rec := api.do(http.MethodGet, "/api/topics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/api/topics", "", map[string]string{"slug": "dogs"})
	assertMsg(t, rec, http.StatusForbidden, "No token provided")
}

func TestListArticles(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("butter_bridge")

	rec := api.do(http.MethodGet, "/api/articles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "total_count")
	var articles []map[string]any
	require.NoError(t, json.Unmarshal(raw["articles"], &articles))
	require.Len(t, articles, 10)
	assert.NotContains(t, articles[0], "body")
	assert.Contains(t, articles[0], "comment_count")

	rec = api.do(http.MethodGet, "/api/articles?topic=mitch&limit=5&p=3&total_count=true&sort_by=title&order=asc", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Articles   []map[string]any `json:"articles"`
		TotalCount int              `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 12, page.TotalCount)
	assert.Len(t, page.Articles, 2)

	rec = api.do(http.MethodGet, "/api/articles?page=2&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[struct {
		Articles []any `json:"articles"`
	}](t, rec).Articles, 3)

	rec = api.do(http.MethodGet, "/api/articles?total_count=banana", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "total_count")

	rec = api.do(http.MethodGet, "/api/articles?topic=paper", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"articles":[]}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/articles?topic=dogs", token, nil)
	assertMsg(t, rec, http.StatusNotFound, "Topic not found")

	for _, query := range []string{"sort_by=body", "order=sideways", "limit=0", "p=abc", "limit=-3", "limit=4611686018427387904&p=3"} {
		rec = api.do(http.MethodGet, "/api/articles?"+query, token, nil)
		assertMsg(t, rec, http.StatusBadRequest, "Bad request")
	}
}

func TestGetArticle(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("butter_bridge")

	rec := api.do(http.MethodGet, "/api/articles/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	article := decode[ArticleResponse](t, rec).Article
	assert.Equal(t, 1, article.ArticleID)
	assert.Equal(t, 11, article.CommentCount)
	assert.NotEmpty(t, article.Body)

	rec = api.do(http.MethodGet, "/api/articles/9999", token, nil)
	assertMsg(t, rec, http.StatusNotFound, "Article not found")

	rec = api.do(http.MethodGet, "/api/articles/banana", token, nil)
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestCreateArticle(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("lurker")

	rec := api.do(http.MethodPost, "/api/articles", token, map[string]string{
		"title": "Lurking", "topic": "paper", "body": "quietly",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	article := decode[ArticleResponse](t, rec).Article
	assert.Equal(t, "lurker", article.Author)
	assert.Zero(t, article.Votes)
	assert.NotEmpty(t, article.ArticleImgURL)

	rec = api.do(http.MethodPost, "/api/articles", token, map[string]any{
		"title": "Lurking", "topic": "paper", "body": "quietly", "votes": 100,
	})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/articles", token, map[string]string{"title": "Lurking"})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/articles", token, map[string]string{
		"title": "Lurking", "topic": "dogs", "body": "quietly",
	})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/articles", token, map[string]string{
		"title": "Lurking", "topic": "paper", "body": "quietly", "author": "ghost",
	})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestVoteArticle(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("lurker")

	rec := api.do(http.MethodPatch, "/api/articles/1", token, map[string]int{"inc_votes": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[ArticleResponse](t, rec).Article.Votes)

	rec = api.do(http.MethodPatch, "/api/articles/1", token, map[string]int{"inc_votes": -8})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -3, decode[ArticleResponse](t, rec).Article.Votes)

	for _, body := range []string{`{}`, `{"inc_votes":"cat"}`, `{"inc_votes":1.5}`, `{"inc_votes":null}`, `{"inc_votes":3000000000}`, `{"inc_votes":-2147483649}`} {
		rec = api.do(http.MethodPatch, "/api/articles/1", token, body)
		assertMsg(t, rec, http.StatusBadRequest, "Bad request")
	}

	rec = api.do(http.MethodPatch, "/api/articles/9999", token, map[string]int{"inc_votes": 1})
	assertMsg(t, rec, http.StatusNotFound, "Article not found")
}

func TestDeleteArticle(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("butter_bridge")

	rec := api.do(http.MethodDelete, "/api/articles/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/articles/1/comments", token, nil)
	assertMsg(t, rec, http.StatusNotFound, "Article not found")

	rec = api.do(http.MethodDelete, "/api/articles/1", token, nil)
	assertMsg(t, rec, http.StatusNotFound, "Article not found")

	rec = api.do(http.MethodDelete, "/api/articles/x", token, nil)
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")
}

func TestArticleComments(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("lurker")

	rec := api.do(http.MethodGet, "/api/articles/1/comments?total_count=true&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Comments   []map[string]any `json:"comments"`
		TotalCount int              `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Comments, 5)
	assert.Equal(t, 11, page.TotalCount)

	rec = api.do(http.MethodGet, "/api/articles/2/comments", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"comments":[]}`, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/articles/9999/comments", token, nil)
	assertMsg(t, rec, http.StatusNotFound, "Article not found")

	for _, query := range []string{"sort_by=title", "limit=4611686018427387904&p=3"} {
		rec = api.do(http.MethodGet, "/api/articles/1/comments?"+query, token, nil)
		assertMsg(t, rec, http.StatusBadRequest, "Bad request")
	}

	rec = api.do(http.MethodPost, "/api/articles/2/comments", token, map[string]string{"body": "first"})
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := decode[CommentResponse](t, rec).Comment
	assert.Equal(t, "lurker", comment.Author)
	assert.Equal(t, 2, comment.ArticleID)

	rec = api.do(http.MethodPost, "/api/articles/2/comments", token, map[string]string{"body": "x", "author": "butter_bridge"})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/articles/2/comments", token, map[string]string{})
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodPost, "/api/articles/9999/comments", token, map[string]string{"body": "hello"})
	assertMsg(t, rec, http.StatusNotFound, "Article not found")
}

func TestComments(t *testing.T) {
	api := newTestAPI(t)
	owner := api.login("butter_bridge")
	other := api.login("icellusedkars")

	rec := api.do(http.MethodPatch, "/api/comments/1", other, map[string]int{"inc_votes": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, decode[CommentResponse](t, rec).Comment.Votes)

	rec = api.do(http.MethodPatch, "/api/comments/9999", other, map[string]int{"inc_votes": 4})
	assertMsg(t, rec, http.StatusNotFound, "Comment not found")

	rec = api.do(http.MethodDelete, "/api/comments/1", other, nil)
	assertMsg(t, rec, http.StatusForbidden, "Forbidden")

	rec = api.do(http.MethodDelete, "/api/comments/1", owner, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(http.MethodDelete, "/api/comments/1", owner, nil)
	assertMsg(t, rec, http.StatusNotFound, "Comment not found")

	rec = api.do(http.MethodDelete, "/api/comments/3", owner, nil)
	assertMsg(t, rec, http.StatusForbidden, "Forbidden")

	rec = api.do(http.MethodDelete, "/api/comments/1", "", nil)
	assertMsg(t, rec, http.StatusForbidden, "No token provided")
}

func TestUsers(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("rogersop")

	rec := api.do(http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[UsersResponse](t, rec).Users, 4)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	rec = api.do(http.MethodGet, "/api/users/rogersop", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paul", decode[UserResponse](t, rec).User.Name)
	assert.NotContains(t, rec.Body.String(), "$2a$")

	rec = api.do(http.MethodGet, "/api/users/ghost", token, nil)
	assertMsg(t, rec, http.StatusNotFound, "User not found")
}

func TestCatalogAndFallbacks(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	catalog := decode[EndpointsResponse](t, rec).Endpoints
	assert.Contains(t, catalog, "GET /api/articles")
	assert.Contains(t, catalog["GET /api/articles"].Queries, "total_count")

	rec = api.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/not-a-route", "", nil)
	assertMsg(t, rec, http.StatusNotFound, "Route not found")

	rec = api.do(http.MethodGet, "/api/nothing-here", "", nil)
	assertMsg(t, rec, http.StatusNotFound, "Route not found")

	rec = api.do(http.MethodPut, "/login", "", nil)
	assertMsg(t, rec, http.StatusMethodNotAllowed, "Method not allowed")
}

func TestStorageFailureIsInternal(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("lurker")
	api.memory.Err = assert.AnError

	rec := api.do(http.MethodGet, "/api/topics", token, nil)
	assertMsg(t, rec, http.StatusInternalServerError, "Internal Server Error")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestImages(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("lurker")

	rec := api.do(http.MethodPost, "/api/articles/images", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	objects := &memoryObjects{}
	api = newTestAPI(t, func(d *Dependencies) {
		d.Images = services.NewImageService(objects, "/images")
	})
	token = api.login("lurker")

	upload := func(field string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(field, "cover.png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/articles/images", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		return rec
	}

	rec = upload("image", pngHeader)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	url := decode[ImageResponse](t, rec).ArticleImgURL
	require.True(t, strings.HasPrefix(url, "/images/"))

	rec = api.do(http.MethodGet, url, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, rec.Body.Bytes())

	rec = upload("image", []byte("plain text"))
	assertMsg(t, rec, http.StatusBadRequest, "Unsupported image type")

	rec = upload("file", pngHeader)
	assertMsg(t, rec, http.StatusBadRequest, "Bad request")

	rec = api.do(http.MethodGet, "/images/missing.png", "", nil)
	assertMsg(t, rec, http.StatusNotFound, "Image not found")
}
