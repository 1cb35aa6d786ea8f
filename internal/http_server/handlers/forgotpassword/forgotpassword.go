package forgotpassword

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

// The body never reveals whether the email matched an account, so the
// response is identical for existing, unknown and deactivated accounts.
const constantMessage = "If an account with that email exists, a password reset link has been sent."

func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.forgotpassword.New"

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

		// A store failure is logged but still answered with the constant
		// message: observable behavior never branches on account existence.
		if err := authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
			log.Error("failed to process reset request", sl.Err(err))
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Message:  constantMessage,
		})
	}
}
