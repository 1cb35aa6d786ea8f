// Package project implements the per-user string-art project resource:
// validation, CRUD and listing, gated by the access policy.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sl "stringart_backend/internal/lib/logger"
	"stringart_backend/internal/models"
	"stringart_backend/internal/policy"
	"stringart_backend/internal/storage"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("access denied")
)

// ValidationError carries every violated rule at once.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

type Store interface {
	SaveProject(ctx context.Context, p *models.Project) error
	ProjectByID(ctx context.Context, id int64) (models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id int64) error
	ProjectsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Project, error)
	CountUserProjects(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	log   *slog.Logger
	store Store
}

func New(log *slog.Logger, store Store) *Service {
	return &Service{log: log, store: store}
}

const defaultVersion = "1.0.0"

type CreateParams struct {
	Name        string
	Version     string
	BoardConfig models.BoardConfig
	Nails       map[string]json.RawMessage
}

func (s *Service) Create(ctx context.Context, owner *models.User, params CreateParams) (models.Project, error) {
	const op = "project.Create"

	log := s.log.With(slog.String("op", op))

	var violations []string
	violations = append(violations, validateName(params.Name)...)
	violations = append(violations, validateBoardConfig(params.BoardConfig)...)
	violations = append(violations, validateNails(params.Nails)...)
	if params.Version != "" {
		violations = append(violations, validateVersion(params.Version)...)
	}

	if len(violations) > 0 {
		return models.Project{}, &ValidationError{Violations: violations}
	}

	version := params.Version
	if version == "" {
		version = defaultVersion
	}

	p := models.Project{
		UserID:      owner.ID,
		Name:        params.Name,
		Version:     version,
		Visibility:  models.VisibilityPersonal,
		BoardConfig: params.BoardConfig,
		Nails:       params.Nails,
	}

	if err := s.store.SaveProject(ctx, &p); err != nil {
		log.Error("failed to save project", sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("project created", slog.Int64("project_id", p.ID))

	return p, nil
}

// Get returns a project the requester is allowed to read: always for the
// owner, only when shared for anyone else.
func (s *Service) Get(ctx context.Context, requester *models.User, projectID int64) (models.Project, error) {
	const op = "project.Get"

	p, err := s.projectByID(ctx, op, projectID)
	if err != nil {
		return models.Project{}, err
	}

	if !policy.CanReadProject(requester.ID, p.UserID, p.Visibility) {
		return models.Project{}, ErrForbidden
	}

	return p, nil
}

type Pagination struct {
	PageNumber      int   `json:"page_number"`
	PageSize        int   `json:"page_size"`
	TotalCount      int64 `json:"total_count"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

// List returns the owner's projects, newest first. Page numbers below one
// clamp to one; page size clamps into [1,100].
func (s *Service) List(ctx context.Context, owner *models.User, pageNumber, pageSize int) ([]models.Project, Pagination, error) {
	const op = "project.List"

	log := s.log.With(slog.String("op", op))

	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (pageNumber - 1) * pageSize

	projects, err := s.store.ProjectsByUser(ctx, owner.ID, pageSize, offset)
	if err != nil {
		log.Error("failed to list projects", sl.Err(err))
		return nil, Pagination{}, fmt.Errorf("%s: %w", op, err)
	}

	total, err := s.store.CountUserProjects(ctx, owner.ID)
	if err != nil {
		log.Error("failed to count projects", sl.Err(err))
		return nil, Pagination{}, fmt.Errorf("%s: %w", op, err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	pagination := Pagination{
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
	}

	return projects, pagination, nil
}

// UpdateParams carries only the fields present in the request; nil means the
// field is left untouched.
type UpdateParams struct {
	Name        *string
	Version     *string
	Visibility  *string
	BoardConfig *models.BoardConfig
	Nails       map[string]json.RawMessage
}

func (s *Service) Update(ctx context.Context, requester *models.User, projectID int64, params UpdateParams) (models.Project, error) {
	const op = "project.Update"

	log := s.log.With(slog.String("op", op))

	p, err := s.projectByID(ctx, op, projectID)
	if err != nil {
		return models.Project{}, err
	}

	if !policy.CanWriteProject(requester.ID, p.UserID) {
		return models.Project{}, ErrForbidden
	}

	var violations []string
	if params.Name != nil {
		violations = append(violations, validateName(*params.Name)...)
	}
	if params.Version != nil {
		violations = append(violations, validateVersion(*params.Version)...)
	}
	if params.Visibility != nil {
		violations = append(violations, validateVisibility(*params.Visibility)...)
	}
	if params.BoardConfig != nil {
		violations = append(violations, validateBoardConfig(*params.BoardConfig)...)
	}
	if params.Nails != nil {
		violations = append(violations, validateNails(params.Nails)...)
	}

	if len(violations) > 0 {
		return models.Project{}, &ValidationError{Violations: violations}
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Version != nil {
		p.Version = *params.Version
	}
	if params.Visibility != nil {
		p.Visibility = models.Visibility(*params.Visibility)
	}
	if params.BoardConfig != nil {
		p.BoardConfig = *params.BoardConfig
	}
	if params.Nails != nil {
		p.Nails = params.Nails
	}

	if err := s.store.UpdateProject(ctx, &p); err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return models.Project{}, ErrNotFound
		}

		log.Error("failed to update project", sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("project updated", slog.Int64("project_id", p.ID))

	return p, nil
}

func (s *Service) Delete(ctx context.Context, requester *models.User, projectID int64) error {
	const op = "project.Delete"

	log := s.log.With(slog.String("op", op))

	p, err := s.projectByID(ctx, op, projectID)
	if err != nil {
		return err
	}

	if !policy.CanWriteProject(requester.ID, p.UserID) {
		return ErrForbidden
	}

	if err := s.store.DeleteProject(ctx, p.ID); err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return ErrNotFound
		}

		log.Error("failed to delete project", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("project deleted", slog.Int64("project_id", p.ID))

	return nil
}

func (s *Service) projectByID(ctx context.Context, op string, projectID int64) (models.Project, error) {
	p, err := s.store.ProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return models.Project{}, ErrNotFound
		}

		s.log.Error("failed to load project", slog.String("op", op), sl.Err(err))
		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}
