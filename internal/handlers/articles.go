package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/ncnews/apiserver/types"
)

// ArticleHandler provides HTTP handlers for articles and their comments.
type ArticleHandler struct {
	articles *services.ArticleService
	comments *services.CommentService
}

// NewArticleHandler constructs an ArticleHandler with the provided dependencies.
func NewArticleHandler(articles *services.ArticleService, comments *services.CommentService) *ArticleHandler {
	return &ArticleHandler{articles: articles, comments: comments}
}

// ArticleRouter registers article routes. Every route expects RequireAuth
// to run first.
func ArticleRouter(r chi.Router, articles *services.ArticleService, comments *services.CommentService) {
	handler := NewArticleHandler(articles, comments)

	r.Get("/", handler.ListArticles)
	r.Post("/", handler.CreateArticle)
	r.Route("/{articleID}", func(r chi.Router) {
		r.Get("/", handler.GetArticle)
		r.Patch("/", handler.VoteArticle)
		r.Delete("/", handler.DeleteArticle)
		r.Get("/comments", handler.ListComments)
		r.Post("/comments", handler.CreateComment)
	})
}

// ListArticles handles GET /api/articles.
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.articles.List(r.Context(), listParams(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetArticle handles GET /api/articles/{articleID}.
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "articleID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	article, err := h.articles.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// CreateArticle handles POST /api/articles.
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	caller, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req CreateArticleRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondError(w, r, err)
		return
	}

	article, err := h.articles.Create(r.Context(), caller, types.NewArticle{
		Title:         req.Title,
		Topic:         req.Topic,
		Author:        req.Author,
		Body:          req.Body,
		ArticleImgURL: req.ArticleImgURL,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ArticleResponse{Article: article})
}

// VoteArticle handles PATCH /api/articles/{articleID}.
func (h *ArticleHandler) VoteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "articleID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	delta, err := decodeVote(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	article, err := h.articles.IncrementVotes(r.Context(), id, delta)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// DeleteArticle handles DELETE /api/articles/{articleID}.
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	caller, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := parseID(r, "articleID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.articles.Delete(r.Context(), caller, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /api/articles/{articleID}/comments.
func (h *ArticleHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "articleID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	list, err := h.comments.ListByArticle(r.Context(), id, listParams(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateComment handles POST /api/articles/{articleID}/comments.
func (h *ArticleHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := parseID(r, "articleID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req CreateCommentRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondError(w, r, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), caller, id, req.Body)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CommentResponse{Comment: comment})
}

// CreateArticleRequest lists the only columns a client may set.
type CreateArticleRequest struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	Author        string `json:"author"`
	Topic         string `json:"topic"`
	ArticleImgURL string `json:"article_img_url"`
}

// CreateCommentRequest carries the comment text; the author is the caller.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

type ArticleResponse struct {
	Article types.Article `json:"article"`
}
