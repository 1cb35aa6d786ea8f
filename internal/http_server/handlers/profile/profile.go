package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"stringart_backend/internal/http_server/middleware/authn"
	"stringart_backend/internal/http_server/view"
	resp "stringart_backend/internal/lib/api/response"
	sl "stringart_backend/internal/lib/logger"
	"stringart_backend/internal/user"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type GetResponse struct {
	resp.Response
	User view.PublicProfile `json:"user"`
}

// Get returns the public profile of a verified user; no authentication
// required.
func Get(
	log *slog.Logger,
	userService *user.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.Get"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		uid := chi.URLParam(r, "uid")

		u, err := userService.GetProfile(r.Context(), uid)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("user not found"))

				return
			}

			log.Error("failed to get profile", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, GetResponse{
			Response: resp.OK(),
			User:     view.NewPublicProfile(u),
		})
	}
}

type UpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=500"`
	Bio       *string `json:"bio"`
}

type UpdateResponse struct {
	resp.Response
	Message string    `json:"message"`
	User    view.User `json:"user"`
}

// Update mutates a profile; only the authenticated owner is allowed.
func Update(
	log *slog.Logger,
	validate *validator.Validate,
	userService *user.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.Update"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		requester, ok := authn.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("authorization token required"))

			return
		}

		uid := chi.URLParam(r, "uid")

		var req UpdateRequest

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

		u, err := userService.UpdateProfile(r.Context(), requester, uid, user.UpdateParams{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			AvatarURL: req.AvatarURL,
			Bio:       req.Bio,
		})
		if err != nil {
			switch {
			case errors.Is(err, user.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("user not found"))
			case errors.Is(err, user.ErrForbidden):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("access denied"))
			default:
				log.Error("failed to update profile", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("internal error"))
			}

			return
		}

		render.JSON(w, r, UpdateResponse{
			Response: resp.OK(),
			Message:  "Profile updated successfully",
			User:     view.NewUser(u),
		})
	}
}
