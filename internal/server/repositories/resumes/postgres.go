// Package resumes provides the PostgreSQL-backed resume store.
package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/dbx"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	"github.com/google/uuid"
)

// SearchLimit caps the number of rows a free-text search returns.
const SearchLimit = 100

const resumeColumns = `id, user_id, title, content, status, template_id, is_public, view_count,
		share_url, last_viewed_at, published_at, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (*models.Resume, error) {
	r := &models.Resume{}
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Content, &r.Status, &r.TemplateID, &r.IsPublic, &r.ViewCount,
		&r.ShareURL, &r.LastViewedAt, &r.PublishedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r, nil
}

func scanResumes(rows *sql.Rows) ([]*models.Resume, error) {
	defer rows.Close()

	result := make([]*models.Resume, 0)
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Create inserts resume, assigning an ID when empty.
func (r *PostgresRepository) Create(ctx context.Context, resume *models.Resume) (*models.Resume, error) {
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO resumes (id, user_id, title, content, status, template_id, is_public, share_url, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		resume.ID, resume.UserID, resume.Title, resume.Content, string(resume.Status),
		resume.TemplateID, resume.IsPublic, resume.ShareURL, resume.PublishedAt).
		Scan(&resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return resume, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, filter models.ResumeFilter) ([]*models.Resume, int, error) {
	var status any
	if filter.Status != nil {
		status = string(*filter.Status)
	}

	countQuery :=
		`SELECT COUNT(*) FROM resumes
		 WHERE user_id = $1 AND deleted_at IS NULL AND ($2::varchar IS NULL OR status = $2::varchar)`

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`SELECT ` + resumeColumns + ` FROM resumes
		 WHERE user_id = $1 AND deleted_at IS NULL AND ($2::varchar IS NULL OR status = $2::varchar)
		 ORDER BY updated_at DESC
		 LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, userID, status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	list, err := scanResumes(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Search matches q as a case-insensitive substring of the title or of the
// candidate name in content.personalInfo.name. LIKE wildcards in q are
// matched literally.
func (r *PostgresRepository) Search(ctx context.Context, userID string, q string) ([]*models.Resume, error) {
	query :=
		`SELECT ` + resumeColumns + ` FROM resumes
		 WHERE user_id = $1 AND deleted_at IS NULL
		   AND (title ILIKE $2 OR content->'personalInfo'->>'name' ILIKE $2)
		 ORDER BY updated_at DESC
		 LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, "%"+escapeLike(q)+"%", SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanResumes(rows)
}

func (r *PostgresRepository) View(ctx context.Context, userID string, id string) (*models.Resume, error) {
	query :=
		`UPDATE resumes SET view_count = view_count + 1, last_viewed_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		 RETURNING ` + resumeColumns

	return scanResume(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) ViewPublic(ctx context.Context, id string) (*models.Resume, error) {
	query :=
		`UPDATE resumes SET view_count = view_count + 1, last_viewed_at = NOW()
		 WHERE id = $1 AND is_public AND status = 'published' AND deleted_at IS NULL
		 RETURNING ` + resumeColumns

	return scanResume(r.db.QueryRowContext(ctx, query, id))
}

// Update applies the non-nil fields of patch. A transition into "published"
// stamps published_at.
func (r *PostgresRepository) Update(ctx context.Context, userID string, id string, patch models.ResumePatch) (*models.Resume, error) {
	var content, status any
	if patch.Content != nil {
		content = *patch.Content
	}
	if patch.Status != nil {
		status = string(*patch.Status)
	}

	query :=
		`UPDATE resumes SET
		   title        = COALESCE($3, title),
		   content      = COALESCE($4::jsonb, content),
		   status       = COALESCE($5::varchar, status),
		   template_id  = COALESCE($6, template_id),
		   is_public    = COALESCE($7, is_public),
		   published_at = CASE WHEN $5::varchar = 'published' AND status <> 'published' THEN NOW() ELSE published_at END,
		   updated_at   = NOW()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		 RETURNING ` + resumeColumns

	return scanResume(r.db.QueryRowContext(ctx, query,
		id, userID, patch.Title, content, status, patch.TemplateID, patch.IsPublic))
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, userID string, id string) error {
	query :=
		`UPDATE resumes SET deleted_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
