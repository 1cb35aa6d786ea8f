package resend

import (
	"log/slog"
	"net/http"

	"stringart_backend/internal/auth"
	resp "stringart_backend/internal/lib/api/response"
	sl "stringart_backend/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Email string `json:"email" validate:"required,email"`
}

type Response struct {
	resp.Response
	Message string `json:"message"`
}

// New reissues the verification email. The outcome is quiet for unknown and
// already-verified accounts.
func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resend.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Warn("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		if err := authService.ResendVerificationEmail(r.Context(), req.Email); err != nil {
			log.Error("failed to resend verification email", sl.Err(err))
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Message:  "If an unverified account with that email exists, a new verification link has been sent.",
		})
	}
}
