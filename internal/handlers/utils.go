package handlers

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/services"
	"github.com/ncnews/apiserver/types"
)

type contextKey string

const contextUserKey contextKey = "user"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the error envelope returned for every failure.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

func withUser(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextUserKey, user)
}

// userFromContext returns the user attached by RequireAuth.
func userFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok && user.Username != ""
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Msg: message})
}

// decodeJSON reads a JSON object into dst. With strict set, fields dst does
// not declare are rejected.
func decodeJSON(r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return apperr.BadRequest("Bad request")
	}
	if dec.More() {
		return apperr.BadRequest("Bad request")
	}
	return nil
}

// parseID reads a positive integer path parameter.
func parseID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, apperr.BadRequest("Bad request")
	}
	return id, nil
}

// listParams collects the list query string. "page" is accepted as an alias
// of "p".
func listParams(r *http.Request) services.ListParams {
	q := r.URL.Query()
	page := q.Get("p")
	if page == "" {
		page = q.Get("page")
	}
	return services.ListParams{
		SortBy:     q.Get("sort_by"),
		Order:      q.Get("order"),
		Topic:      q.Get("topic"),
		Limit:      q.Get("limit"),
		Page:       page,
		TotalCount: q.Get("total_count"),
	}
}

// voteRequest is the body of the vote endpoints. A missing or non-integer
// inc_votes is rejected, as is one outside the INTEGER range of the votes
// columns.
type voteRequest struct {
	IncVotes *int `json:"inc_votes"`
}

func decodeVote(r *http.Request) (int, error) {
	var req voteRequest
	if err := decodeJSON(r, &req, false); err != nil {
		return 0, err
	}
	if req.IncVotes == nil {
		return 0, apperr.BadRequest("Bad request")
	}
	if *req.IncVotes < math.MinInt32 || *req.IncVotes > math.MaxInt32 {
		return 0, apperr.BadRequest("Bad request")
	}
	return *req.IncVotes, nil
}

// currentUser fetches the authenticated user or fails with the same message
// the middleware uses when no identity is present.
func currentUser(r *http.Request) (types.User, error) {
	user, ok := userFromContext(r.Context())
	if !ok {
		return types.User{}, apperr.Forbidden(services.MsgNoToken)
	}
	return user, nil
}
