package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
)

type ResumeStatus string

const (
	StatusDraft     ResumeStatus = "draft"
	StatusPublished ResumeStatus = "published"
	StatusArchived  ResumeStatus = "archived"
)

func (s ResumeStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Resume struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Title        string        `json:"title"`
	Content      ResumeContent `json:"content"`
	Status       ResumeStatus  `json:"status"`
	TemplateID   *string       `json:"templateId"`
	IsPublic     bool          `json:"isPublic"`
	ViewCount    int64         `json:"viewCount"`
	ShareURL     *string       `json:"shareUrl"`
	LastViewedAt *time.Time    `json:"lastViewedAt"`
	PublishedAt  *time.Time    `json:"publishedAt"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	DeletedAt    *time.Time    `json:"-"`
}

// ResumePatch is a partial update; nil fields keep their stored value.
type ResumePatch struct {
	Title      *string
	Content    *ResumeContent
	Status     *ResumeStatus
	TemplateID *string
	IsPublic   *bool
}

// ResumeFilter selects a page of one owner's resumes.
type ResumeFilter struct {
	Status *ResumeStatus
	Limit  int
	Offset int
}

type ResumePage struct {
	Data       []*Resume `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// ResumeContent is the structured document body, stored as JSONB.
type ResumeContent struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []Skill         `json:"skills,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Languages      []Language      `json:"languages,omitempty"`
}

type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	IsCurrent   bool     `json:"isCurrent"`
	Description []string `json:"description"`
}

type Education struct {
	ID          string   `json:"id"`
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Field       string   `json:"field"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate,omitempty"`
	GPA         string   `json:"gpa,omitempty"`
	Description []string `json:"description,omitempty"`
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillExpert       SkillLevel = "expert"
)

type Skill struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Level    SkillLevel `json:"level"`
	Category string     `json:"category"`
	Years    *float64   `json:"years,omitempty"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	URL    string `json:"url,omitempty"`
}

type Proficiency string

const (
	ProficiencyBasic        Proficiency = "basic"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyFluent       Proficiency = "fluent"
	ProficiencyNative       Proficiency = "native"
)

type Language struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency"`
}

// Validate checks the enumerated fields of the document.
func (c *ResumeContent) Validate() error {
	for i, s := range c.Skills {
		switch s.Level {
		case SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert:
		default:
			return fmt.Errorf("%w: skills[%d].level %q is not one of beginner, intermediate, advanced, expert", common.ErrValidation, i, s.Level)
		}
	}
	for i, l := range c.Languages {
		switch l.Proficiency {
		case ProficiencyBasic, ProficiencyIntermediate, ProficiencyFluent, ProficiencyNative:
		default:
			return fmt.Errorf("%w: languages[%d].proficiency %q is not one of basic, intermediate, fluent, native", common.ErrValidation, i, l.Proficiency)
		}
	}
	return nil
}

func (c ResumeContent) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *ResumeContent) Scan(src any) error {
	return scanJSON(src, c)
}
