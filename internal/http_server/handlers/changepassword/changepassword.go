package changepassword

import (
	"errors"
	"log/slog"
	"net/http"

	"stringart_backend/internal/auth"
	"stringart_backend/internal/http_server/middleware/authn"
	"stringart_backend/internal/http_server/view"
	resp "stringart_backend/internal/lib/api/response"
	sl "stringart_backend/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
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
		const op = "handlers.changepassword.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := authn.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("authorization token required"))

			return
		}

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

		err := authService.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword, req.NewPasswordConfirmation)
		if err != nil {
			var verr *auth.ValidationError
			if errors.As(err, &verr) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Errors("password change failed", verr.Violations))

				return
			}

			if errors.Is(err, auth.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Error("current password is incorrect"))

				return
			}

			if errors.Is(err, auth.ErrPasswordUnchanged) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Error("new password must be different from current password"))

				return
			}

			log.Error("failed to change password", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Message:  "Password changed successfully",
			User:     view.NewUser(*user),
		})
	}
}
