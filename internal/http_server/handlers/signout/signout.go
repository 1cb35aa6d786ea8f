package signout

import (
	"errors"
	"log/slog"
	"net/http"

	"stringart_backend/internal/auth"
	"stringart_backend/internal/http_server/middleware/authn"
	resp "stringart_backend/internal/lib/api/response"
	sl "stringart_backend/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Message string `json:"message"`
}

func New(
	log *slog.Logger,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signout.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		bearer := authn.BearerToken(r)
		if bearer == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("authorization token required"))

			return
		}

		if err := authService.Logout(r.Context(), bearer); err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("invalid or expired token"))

				return
			}

			log.Error("failed to sign out user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Message:  "Signed out successfully",
		})
	}
}
