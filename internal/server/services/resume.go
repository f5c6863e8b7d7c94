package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	"github.com/dmitrijs2005/resumebuilder/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxPage          = 1_000_000

	PublicResumePath = "/public/resumes/"
)

type CreateResumeInput struct {
	Title      string               `json:"title"`
	Content    models.ResumeContent `json:"content"`
	Status     *models.ResumeStatus `json:"status"`
	TemplateID *string              `json:"templateId"`
	IsPublic   *bool                `json:"isPublic"`
}

// UpdateResumeInput is a partial update; nil fields are left unchanged.
type UpdateResumeInput struct {
	Title      *string               `json:"title"`
	Content    *models.ResumeContent `json:"content"`
	Status     *models.ResumeStatus  `json:"status"`
	TemplateID *string               `json:"templateId"`
	IsPublic   *bool                 `json:"isPublic"`
}

type ListFilter struct {
	Status *models.ResumeStatus
	Page   int
	Limit  int
}

type ResumeService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	publicBaseURL string
	logger        logging.Logger
	now           func() time.Time
}

func NewResumeService(db *sql.DB, m repomanager.RepositoryManager, publicBaseURL string, logger logging.Logger) *ResumeService {
	return &ResumeService{
		db:            db,
		repomanager:   m,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
		now:           time.Now,
	}
}

// ShareURL is the anonymous read link for a resume id.
func (s *ResumeService) ShareURL(id string) string {
	return s.publicBaseURL + PublicResumePath + id
}

func (s *ResumeService) Create(ctx context.Context, userID string, in CreateResumeInput) (*models.Resume, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateTemplateID(in.TemplateID); err != nil {
		return nil, err
	}
	if err := in.Content.Validate(); err != nil {
		return nil, err
	}

	status := models.StatusDraft
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, validationError("status %q is not one of draft, published, archived", *in.Status)
		}
		status = *in.Status
	}

	id := uuid.NewString()
	share := s.ShareURL(id)
	r := &models.Resume{
		ID:         id,
		UserID:     userID,
		Title:      in.Title,
		Content:    in.Content,
		Status:     status,
		TemplateID: in.TemplateID,
		ShareURL:   &share,
	}
	if in.IsPublic != nil {
		r.IsPublic = *in.IsPublic
	}
	if status == models.StatusPublished {
		now := s.now()
		r.PublishedAt = &now
	}

	created, err := s.repomanager.Resumes(s.db).Create(ctx, r)
	if err != nil {
		return nil, s.repoError(ctx, err)
	}
	s.logger.Info(ctx, "resume created", "user_id", userID, "resume_id", created.ID)
	return created, nil
}

func (s *ResumeService) List(ctx context.Context, userID string, f ListFilter) (*models.ResumePage, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, validationError("status %q is not one of draft, published, archived", *f.Status)
	}
	page, limit := normalizePage(f.Page, f.Limit)
	if page > MaxPage {
		return nil, validationError("page must be at most %d", MaxPage)
	}

	list, total, err := s.repomanager.Resumes(s.db).List(ctx, userID, models.ResumeFilter{
		Status: f.Status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, s.repoError(ctx, err)
	}

	return &models.ResumePage{
		Data:       list,
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func (s *ResumeService) Search(ctx context.Context, userID string, q string) ([]*models.Resume, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationError("search query is required")
	}
	list, err := s.repomanager.Resumes(s.db).Search(ctx, userID, q)
	if err != nil {
		return nil, s.repoError(ctx, err)
	}
	return list, nil
}

// Get returns an owned resume and counts the view.
func (s *ResumeService) Get(ctx context.Context, userID, id string) (*models.Resume, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	r, err := s.repomanager.Resumes(s.db).View(ctx, userID, id)
	if err != nil {
		return nil, s.repoError(ctx, err)
	}
	return r, nil
}

// GetPublic serves anonymous readers. Anything not both public and
// published is reported as not found.
func (s *ResumeService) GetPublic(ctx context.Context, id string) (*models.Resume, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	r, err := s.repomanager.Resumes(s.db).ViewPublic(ctx, id)
	if err != nil {
		return nil, s.repoError(ctx, err)
	}
	return r, nil
}

func (s *ResumeService) Update(ctx context.Context, userID, id string, in UpdateResumeInput) (*models.Resume, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if err := validateTitle(t); err != nil {
			return nil, err
		}
		in.Title = &t
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, validationError("status %q is not one of draft, published, archived", *in.Status)
	}
	if err := validateTemplateID(in.TemplateID); err != nil {
		return nil, err
	}
	if in.Content != nil {
		if err := in.Content.Validate(); err != nil {
			return nil, err
		}
	}

	r, err := s.repomanager.Resumes(s.db).Update(ctx, userID, id, models.ResumePatch{
		Title:      in.Title,
		Content:    in.Content,
		Status:     in.Status,
		TemplateID: in.TemplateID,
		IsPublic:   in.IsPublic,
	})
	if err != nil {
		return nil, s.repoError(ctx, err)
	}
	return r, nil
}

func (s *ResumeService) ChangeStatus(ctx context.Context, userID, id string, status models.ResumeStatus) (*models.Resume, error) {
	if !status.Valid() {
		return nil, validationError("status %q is not one of draft, published, archived", status)
	}
	return s.Update(ctx, userID, id, UpdateResumeInput{Status: &status})
}

func (s *ResumeService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Resumes(s.db).SoftDelete(ctx, userID, id); err != nil {
		return s.repoError(ctx, err)
	}
	s.logger.Info(ctx, "resume deleted", "user_id", userID, "resume_id", id)
	return nil
}

func (s *ResumeService) repoError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.logger.Error(ctx, "resume repository", "error", err)
	return common.ErrorInternal
}
