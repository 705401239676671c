package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/homescout/homescout-backend/api/middleware"
	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/pkg/auth/session"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
)

// flashPusher queues one-shot messages for the caller's session.
type flashPusher interface {
	Push(ctx context.Context, accessID string, flash session.Flash) error
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func serviceUnavailable(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, name string) {
	responses.WriteError(ctx, logg, w, pkgerrors.Newf(pkgerrors.CodeInternal, "%s service unavailable", name))
}

// flash is best effort: a lost notice never fails the request that produced it.
func flash(r *http.Request, logg *logger.Logger, flashes flashPusher, kind session.FlashKind, message string) {
	if flashes == nil {
		return
	}
	accessID := middleware.AccessIDFromContext(r.Context())
	if accessID == "" {
		return
	}
	if err := flashes.Push(r.Context(), accessID, session.Flash{Kind: kind, Message: message}); err != nil && logg != nil {
		logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "failed to queue flash message")
	}
}
