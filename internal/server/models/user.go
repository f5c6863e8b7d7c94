package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User is the credential store record. PasswordHash never leaves the
// server: it is excluded from JSON, and handlers only emit the projections
// below.
type User struct {
	ID           string
	Email        string
	PasswordHash string `json:"-"`
	FullName     string
	Phone        *string
	Bio          *string
	ProfileImage *string
	SocialLinks  SocialLinks
	IsVerified   bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is returned next to a credential pair.
type PublicUser struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone"`
}

// Profile is the full public projection of a user.
type Profile struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	FullName     string      `json:"fullName"`
	Phone        *string     `json:"phone"`
	Bio          *string     `json:"bio"`
	ProfileImage *string     `json:"profileImage"`
	SocialLinks  SocialLinks `json:"socialLinks"`
	IsVerified   bool        `json:"isVerified"`
	LastLoginAt  *time.Time  `json:"lastLoginAt"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone}
}

func (u *User) Profile() Profile {
	links := u.SocialLinks
	if links == nil {
		links = SocialLinks{}
	}
	return Profile{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Phone:        u.Phone,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		SocialLinks:  links,
		IsVerified:   u.IsVerified,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ProfilePatch carries a partial profile update; nil fields are untouched.
type ProfilePatch struct {
	FullName     *string      `json:"fullName"`
	Phone        *string      `json:"phone"`
	Bio          *string      `json:"bio"`
	SocialLinks  *SocialLinks `json:"socialLinks"`
	ProfileImage *string      `json:"-"`
}

// SocialLinks maps a network name ("github", "linkedin", ...) to a URL.
// Stored as a JSONB object.
type SocialLinks map[string]string

func (s SocialLinks) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SocialLinks) Scan(src any) error {
	return scanJSON(src, s)
}

// scanJSON decodes a json/jsonb column value into dst. NULL leaves dst as is.
func scanJSON(src any, dst any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}
