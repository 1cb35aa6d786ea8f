package resetpassword

import (
	"errors"
	"log/slog"
	"net/http"

	"stringart_backend/internal/auth"
	"stringart_backend/internal/http_server/view"
	resp "stringart_backend/internal/lib/api/response"
	sl "stringart_backend/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Token                   string `json:"token" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required"`
}

type Response struct {
	resp.Response
	Message string    `json:"message"`
	User    view.User `json:"user"`
}

func New(
	log *slog.Logger,
	validate *validator.Validate,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resetpassword.New"

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

		user, err := authService.ResetPassword(r.Context(), req.Token, req.NewPassword, req.NewPasswordConfirmation)
		if err != nil {
			var verr *auth.ValidationError
			if errors.As(err, &verr) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Errors("password reset failed", verr.Violations))

				return
			}

			if errors.Is(err, auth.ErrInvalidToken) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Error("invalid or expired reset token"))

				return
			}

			log.Error("failed to reset password", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Message:  "Password has been reset successfully",
			User:     view.NewUser(user),
		})
	}
}
