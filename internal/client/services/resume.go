package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/resumebuilder/internal/client/client"
	"github.com/dmitrijs2005/resumebuilder/internal/client/models"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ResumeService wraps the resume endpoints for the REPL.
type ResumeService interface {
	List(ctx context.Context, status string, page int) (*models.ResumePage, error)
	Show(ctx context.Context, id string) (*models.Resume, error)
	Create(ctx context.Context, title, contentPath string) (*models.Resume, error)
	Publish(ctx context.Context, id string) (*models.Resume, error)
	Archive(ctx context.Context, id string) (*models.Resume, error)
	Delete(ctx context.Context, id string) error
	Public(ctx context.Context, id string) (*models.Resume, error)
}

type resumeService struct {
	client client.Client
}

func NewResumeService(c client.Client) ResumeService {
	return &resumeService{client: c}
}

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

func (r *resumeService) List(ctx context.Context, status string, page int) (*models.ResumePage, error) {
	switch status {
	case "", StatusDraft, StatusPublished, StatusArchived:
	default:
		return nil, fmt.Errorf("unknown status %q", status)
	}
	return r.client.ListResumes(ctx, status, page, 0)
}

func (r *resumeService) Show(ctx context.Context, id string) (*models.Resume, error) {
	return r.client.GetResume(ctx, id)
}

// Create posts a new draft. contentPath, when set, names a JSON file holding
// the resume document; otherwise the document starts empty.
func (r *resumeService) Create(ctx context.Context, title, contentPath string) (*models.Resume, error) {
	content := json.RawMessage(`{}`)
	if contentPath != "" {
		data, err := readFile(contentPath)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("%s is not valid JSON", contentPath)
		}
		content = data
	}
	return r.client.CreateResume(ctx, client.CreateResumeRequest{
		Title:   strings.TrimSpace(title),
		Content: content,
	})
}

func (r *resumeService) Publish(ctx context.Context, id string) (*models.Resume, error) {
	return r.client.ChangeStatus(ctx, id, StatusPublished)
}

func (r *resumeService) Archive(ctx context.Context, id string) (*models.Resume, error) {
	return r.client.ChangeStatus(ctx, id, StatusArchived)
}

func (r *resumeService) Delete(ctx context.Context, id string) error {
	return r.client.DeleteResume(ctx, id)
}

func (r *resumeService) Public(ctx context.Context, id string) (*models.Resume, error) {
	return r.client.PublicResume(ctx, id)
}
