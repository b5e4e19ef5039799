package handlers

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/store"
	"github.com/rs/zerolog/log"
)

const (
	msgBadRequest       = "Bad request"
	msgInternal         = "Internal Server Error"
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
)

// respondError renders err as a {msg} envelope. Application errors are
// checked before database codes because they never carry one.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := apperr.As(err); ok && appErr.Kind != apperr.KindInternal {
		writeError(w, appErr.Status(), appErr.Msg)
		return
	}

	if store.IsInputViolation(err) {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", middleware.GetReqID(r.Context())).
		Msg("unhandled error")
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// Recoverer turns a panic into a logged 500 with the standard envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().Bytes("stack", debug.Stack()).Msg("panic recovered")
				respondError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFound handles unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, msgRouteNotFound)
}

// MethodNotAllowed handles known paths requested with an unsupported verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
