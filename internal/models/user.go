package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// emailPattern is deliberately loose: one @, no spaces, a dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is a persisted account document.
// PasswordHash and RefreshToken are secrets: the store omits them from reads
// unless explicitly requested, and they never serialize to JSON.
type User struct {
	ID           primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Name         string             `json:"name"       bson:"name"`
	Email        string             `json:"email"      bson:"email"`
	PasswordHash string             `json:"-"         bson:"password_hash,omitempty"`
	RefreshToken string             `json:"-"         bson:"refresh_token,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

// RegisterRequest is the JSON body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the fields and lowercases the email; call before Validate.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return &ValidationError{Message: "name, email, and password are required"}
	}
	if n := utf8.RuneCountInString(r.Name); n < 2 || n > 50 {
		return &ValidationError{Field: "name", Message: "name must be between 2 and 50 characters"}
	}
	if !emailPattern.MatchString(r.Email) {
		return &ValidationError{Field: "email", Message: "email is not valid"}
	}
	if len(r.Password) < 6 {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return &ValidationError{Message: "email and password are required"}
	}
	return nil
}
