package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/ncnews/apiserver/types"
)

// CommentHandler provides HTTP handlers addressing comments by id.
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler constructs a CommentHandler with the provided dependencies.
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// CommentRouter registers comment routes on the given router.
func CommentRouter(r chi.Router, comments *services.CommentService) {
	handler := NewCommentHandler(comments)

	r.Route("/{commentID}", func(r chi.Router) {
		r.Patch("/", handler.VoteComment)
		r.Delete("/", handler.DeleteComment)
	})
}

func (h *CommentHandler) VoteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "commentID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	delta, err := decodeVote(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	comment, err := h.comments.IncrementVotes(r.Context(), id, delta)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CommentResponse{Comment: comment})
}

// DeleteComment removes a comment owned by the caller.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, err := currentUser(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := parseID(r, "commentID")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.comments.Delete(r.Context(), caller, id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type CommentResponse struct {
	Comment types.Comment `json:"comment"`
}
