package middleware

import (
	"net/http"

	"github.com/homescout/homescout-backend/api/responses"
	"github.com/homescout/homescout-backend/pkg/enums"
	"github.com/homescout/homescout-backend/pkg/logger"
)

// RequireRoles rejects requests whose actor holds none of roles.
func RequireRoles(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ActorFromContext(r.Context()).Require(roles...); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
