package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/ncnews/apiserver/types"
)

// TopicHandler provides HTTP handlers for topics.
type TopicHandler struct {
	topics *services.TopicService
}

// NewTopicHandler constructs a TopicHandler with the provided dependencies.
func NewTopicHandler(topics *services.TopicService) *TopicHandler {
	return &TopicHandler{topics: topics}
}

// TopicRouter registers topic routes. With publicList set, listing topics
// does not require a token.
func TopicRouter(r chi.Router, topics *services.TopicService, authMiddleware func(http.Handler) http.Handler, publicList bool) {
	handler := NewTopicHandler(topics)

	if publicList {
		r.Get("/", handler.ListTopics)
	} else {
		r.With(authMiddleware).Get("/", handler.ListTopics)
	}
	r.With(authMiddleware).Post("/", handler.CreateTopic)
}

func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TopicsResponse{Topics: topics})
}

func (h *TopicHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req CreateTopicRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondError(w, r, err)
		return
	}

	topic, err := h.topics.Create(r.Context(), types.Topic{Slug: req.Slug, Description: req.Description})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, TopicResponse{Topic: topic})
}

// CreateTopicRequest lists the only columns a client may set.
type CreateTopicRequest struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type TopicsResponse struct {
	Topics []types.Topic `json:"topics"`
}

type TopicResponse struct {
	Topic types.Topic `json:"topic"`
}
