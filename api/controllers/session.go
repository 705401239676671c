package controllers

import (
	"context"
	"net/http"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
)

type flashPopper interface {
	Pop(ctx context.Context, accessID string) ([]session.Flash, error)
}

// SessionFlash returns and clears the queued flash messages for the session.
func SessionFlash(flashes flashPopper, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flashes == nil {
			serviceUnavailable(r.Context(), logg, w, "flash")
			return
		}
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required"))
			return
		}
		messages, err := flashes.Pop(r.Context(), accessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read flash messages"))
			return
		}
		if messages == nil {
			messages = []session.Flash{}
		}
		responses.WriteSuccess(w, messages)
	}
}
