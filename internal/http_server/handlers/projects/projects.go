package projects

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"stringart_backend/internal/http_server/middleware/authn"
	"stringart_backend/internal/http_server/view"
	resp "stringart_backend/internal/lib/api/response"
	sl "stringart_backend/internal/lib/logger"
	"stringart_backend/internal/models"
	"stringart_backend/internal/project"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type ListResponse struct {
	resp.Response
	Projects   []view.Project     `json:"projects"`
	Pagination project.Pagination `json:"pagination"`
}

func List(
	log *slog.Logger,
	projectService *project.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.projects.List"

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

		pageNumber, _ := strconv.Atoi(r.URL.Query().Get("page_number"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		if pageSize == 0 {
			pageSize = 20
		}

		list, pagination, err := projectService.List(r.Context(), requester, pageNumber, pageSize)
		if err != nil {
			log.Error("failed to list projects", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, ListResponse{
			Response:   resp.OK(),
			Projects:   view.NewProjects(list),
			Pagination: pagination,
		})
	}
}

type GetResponse struct {
	resp.Response
	Project view.Project `json:"project"`
}

func Get(
	log *slog.Logger,
	projectService *project.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.projects.Get"

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

		id, ok := projectID(w, r)
		if !ok {
			return
		}

		p, err := projectService.Get(r.Context(), requester, id)
		if err != nil {
			renderProjectError(w, r, log, err, "failed to get project")
			return
		}

		render.JSON(w, r, GetResponse{
			Response: resp.OK(),
			Project:  view.NewProject(p),
		})
	}
}

type CreateRequest struct {
	Name        string                     `json:"name" validate:"required,max=255"`
	Version     string                     `json:"version" validate:"omitempty,max=10"`
	BoardConfig models.BoardConfig         `json:"board_config"`
	Nails       map[string]json.RawMessage `json:"nails"`
}

type CreateResponse struct {
	resp.Response
	Message string       `json:"message"`
	Project view.Project `json:"project"`
}

func Create(
	log *slog.Logger,
	validate *validator.Validate,
	projectService *project.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.projects.Create"

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

		var req CreateRequest

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

		p, err := projectService.Create(r.Context(), requester, project.CreateParams{
			Name:        req.Name,
			Version:     req.Version,
			BoardConfig: req.BoardConfig,
			Nails:       req.Nails,
		})
		if err != nil {
			renderProjectError(w, r, log, err, "failed to create project")
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreateResponse{
			Response: resp.OK(),
			Message:  "Project created successfully",
			Project:  view.NewProject(p),
		})
	}
}

type UpdateRequest struct {
	Name        *string                    `json:"name"`
	Version     *string                    `json:"version"`
	Visibility  *string                    `json:"visibility"`
	BoardConfig *models.BoardConfig        `json:"board_config"`
	Nails       map[string]json.RawMessage `json:"nails"`
}

type UpdateResponse struct {
	resp.Response
	Message string       `json:"message"`
	Project view.Project `json:"project"`
}

func Update(
	log *slog.Logger,
	projectService *project.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.projects.Update"

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

		id, ok := projectID(w, r)
		if !ok {
			return
		}

		var req UpdateRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))

			return
		}

		p, err := projectService.Update(r.Context(), requester, id, project.UpdateParams{
			Name:        req.Name,
			Version:     req.Version,
			Visibility:  req.Visibility,
			BoardConfig: req.BoardConfig,
			Nails:       req.Nails,
		})
		if err != nil {
			renderProjectError(w, r, log, err, "failed to update project")
			return
		}

		render.JSON(w, r, UpdateResponse{
			Response: resp.OK(),
			Message:  "Project updated successfully",
			Project:  view.NewProject(p),
		})
	}
}

type DeleteResponse struct {
	resp.Response
	Message string `json:"message"`
}

func Delete(
	log *slog.Logger,
	projectService *project.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.projects.Delete"

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

		id, ok := projectID(w, r)
		if !ok {
			return
		}

		if err := projectService.Delete(r.Context(), requester, id); err != nil {
			renderProjectError(w, r, log, err, "failed to delete project")
			return
		}

		render.JSON(w, r, DeleteResponse{
			Response: resp.OK(),
			Message:  "Project deleted successfully",
		})
	}
}

func projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Error("invalid project id"))

		return 0, false
	}

	return id, true
}

func renderProjectError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, logMsg string) {
	var verr *project.ValidationError
	if errors.As(err, &verr) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, resp.Errors("validation failed", verr.Violations))

		return
	}

	switch {
	case errors.Is(err, project.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, resp.Error("project not found"))
	case errors.Is(err, project.ErrForbidden):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, resp.Error("access denied"))
	default:
		log.Error(logMsg, sl.Err(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, resp.Error("internal error"))
	}
}
