package signup

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
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	FirstName            string `json:"first_name" validate:"max=100"`
	LastName             string `json:"last_name" validate:"max=100"`
	Phone                string `json:"phone" validate:"max=20"`
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
		const op = "handlers.signup.New"

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

		user, err := authService.Register(r.Context(), auth.RegisterParams{
			Email:                req.Email,
			Password:             req.Password,
			PasswordConfirmation: req.PasswordConfirmation,
			FirstName:            req.FirstName,
			LastName:             req.LastName,
			Phone:                req.Phone,
		})
		if err != nil {
			var verr *auth.ValidationError
			if errors.As(err, &verr) {
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Errors("registration failed", verr.Violations))

				return
			}

			// Duplicate email is the one deliberate existence leak: uniqueness
			// is already observable through sign-up collisions.
			if errors.Is(err, auth.ErrUserExists) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error("user already exists"))

				return
			}

			log.Error("failed to register user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			Message:  "User created successfully. Please check your email to verify your account.",
			User:     view.NewUser(user),
		})
	}
}
