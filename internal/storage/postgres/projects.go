package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stringart_backend/internal/models"
	"stringart_backend/internal/storage"

	"github.com/jackc/pgx/v5"
)

func (r *Repo) SaveProject(ctx context.Context, p *models.Project) error {
	const op = "storage.postgres.SaveProject"

	boardConfig, nails, err := marshalProjectPayloads(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	const query = `
		INSERT INTO projects (user_id, name, version, visibility, board_config, nails)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`

	err = r.pool.QueryRow(ctx, query,
		p.UserID, p.Name, p.Version, p.Visibility, boardConfig, nails,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repo) ProjectByID(ctx context.Context, id int64) (models.Project, error) {
	const op = "storage.postgres.ProjectByID"

	const query = `
		SELECT id, user_id, name, version, visibility, board_config, nails, created_at, updated_at
		FROM projects
		WHERE id = $1;
	`

	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return models.Project{}, err
		}

		return models.Project{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (r *Repo) UpdateProject(ctx context.Context, p *models.Project) error {
	const op = "storage.postgres.UpdateProject"

	boardConfig, nails, err := marshalProjectPayloads(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	const query = `
		UPDATE projects
		SET name = $1, version = $2, visibility = $3, board_config = $4, nails = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at;
	`

	err = r.pool.QueryRow(ctx, query,
		p.Name, p.Version, p.Visibility, boardConfig, nails, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrProjectNotFound
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repo) DeleteProject(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteProject"

	const query = `DELETE FROM projects WHERE id = $1;`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrProjectNotFound
	}

	return nil
}

// ProjectsByUser lists the owner's projects newest first.
func (r *Repo) ProjectsByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Project, error) {
	const op = "storage.postgres.ProjectsByUser"

	const query = `
		SELECT id, user_id, name, version, visibility, board_config, nails, created_at, updated_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var projects []models.Project

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		projects = append(projects, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return projects, nil
}

func (r *Repo) CountUserProjects(ctx context.Context, userID int64) (int64, error) {
	const op = "storage.postgres.CountUserProjects"

	const query = `SELECT COUNT(*) FROM projects WHERE user_id = $1;`

	var count int64

	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func scanProject(row pgx.Row) (models.Project, error) {
	var (
		p           models.Project
		boardConfig []byte
		nails       []byte
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Version,
		&p.Visibility,
		&boardConfig,
		&nails,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Project{}, storage.ErrProjectNotFound
		}

		return models.Project{}, err
	}

	if err := json.Unmarshal(boardConfig, &p.BoardConfig); err != nil {
		return models.Project{}, err
	}

	if err := json.Unmarshal(nails, &p.Nails); err != nil {
		return models.Project{}, err
	}

	return p, nil
}

func marshalProjectPayloads(p *models.Project) (boardConfig, nails []byte, err error) {
	boardConfig, err = json.Marshal(p.BoardConfig)
	if err != nil {
		return nil, nil, err
	}

	nails, err = json.Marshal(p.Nails)
	if err != nil {
		return nil, nil, err
	}

	return boardConfig, nails, nil
}
