// Package models defines the client-side shapes of the REST API payloads used
// by resumectl. Resume content is kept as raw JSON: the CLI never edits it
// field by field.
package models

import (
	"encoding/json"
	"time"
)

// TokenPair is the credential pair returned by login, register and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type User struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone"`
}

// AuthResponse is TokenPair plus the authenticated user.
type AuthResponse struct {
	TokenPair
	User User `json:"user"`
}

type Profile struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	FullName     string            `json:"fullName"`
	Phone        *string           `json:"phone"`
	Bio          *string           `json:"bio"`
	ProfileImage *string           `json:"profileImage"`
	SocialLinks  map[string]string `json:"socialLinks"`
	IsVerified   bool              `json:"isVerified"`
	LastLoginAt  *time.Time        `json:"lastLoginAt"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type Resume struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Content     json.RawMessage `json:"content"`
	Status      string          `json:"status"`
	TemplateID  *string         `json:"templateId"`
	IsPublic    bool            `json:"isPublic"`
	ViewCount   int64           `json:"viewCount"`
	ShareURL    *string         `json:"shareUrl"`
	PublishedAt *time.Time      `json:"publishedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ResumePage struct {
	Data       []*Resume `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// Session is what resumectl keeps on disk between runs.
type Session struct {
	Email        string
	AccessToken  string
	RefreshToken string
}

// Empty reports whether there is nothing to resume.
func (s Session) Empty() bool {
	return s.RefreshToken == "" && s.AccessToken == ""
}
