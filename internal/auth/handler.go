package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/taskflow/internal/models"
	"github.com/ayush/taskflow/internal/store"
	"github.com/ayush/taskflow/internal/web"
)

// RefreshCookie is the name of the cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

// UserStore defines the interface for account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string, withSecrets bool) (*models.User, error)
	GetByID(ctx context.Context, id string, withSecrets bool) (*models.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	RotateRefreshToken(ctx context.Context, id primitive.ObjectID, old, next string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users        UserStore
	tokens       *TokenIssuer
	secureCookie bool
}

func NewHandler(users UserStore, tokens *TokenIssuer, secureCookie bool) *Handler {
	return &Handler{users: users, tokens: tokens, secureCookie: secureCookie}
}

type sessionResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Register creates a new account and signs the caller in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, "invalid request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bcrypt hash: %v", err)
		web.Internal(w)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			web.Fail(w, http.StatusBadRequest, web.CodeDuplicateEmail, "email already registered")
			return
		}
		log.Printf("create user: %v", err)
		web.Internal(w)
		return
	}

	access, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	web.JSON(w, http.StatusCreated, sessionResponse{User: user, AccessToken: access})
}

// Login verifies credentials and signs the caller in. Unknown email and
// wrong password produce the same response, so accounts cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, "invalid request body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		web.Fail(w, http.StatusBadRequest, web.CodeValidation, err.Error())
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email, true)
	if err != nil {
		log.Printf("find user: %v", err)
		web.Internal(w)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		web.Fail(w, http.StatusUnauthorized, web.CodeInvalidCredentials, "invalid email or password")
		return
	}

	access, ok := h.startSession(w, r, user)
	if !ok {
		return
	}
	web.JSON(w, http.StatusOK, sessionResponse{User: user, AccessToken: access})
}

// Refresh exchanges a valid refresh cookie for a fresh token pair. The stored
// token is swapped in one compare-and-set update, so a given refresh token
// works exactly once: replaying it, even immediately, fails.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		web.Fail(w, http.StatusUnauthorized, web.CodeUnauthenticated, "refresh token missing")
		return
	}

	// Expiry and bad signature collapse to the same code here: either way
	// the refresh token is unusable and the remedy is logging in again.
	userID, err := h.tokens.Verify(cookie.Value, RefreshToken)
	if err != nil {
		h.clearRefreshCookie(w)
		web.Fail(w, http.StatusUnauthorized, web.CodeInvalidToken, "invalid refresh token")
		return
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		h.clearRefreshCookie(w)
		web.Fail(w, http.StatusUnauthorized, web.CodeInvalidToken, "invalid refresh token")
		return
	}

	access, err := h.tokens.IssueAccess(userID)
	if err != nil {
		log.Printf("issue access token: %v", err)
		web.Internal(w)
		return
	}
	refresh, err := h.tokens.IssueRefresh(userID)
	if err != nil {
		log.Printf("issue refresh token: %v", err)
		web.Internal(w)
		return
	}

	if err := h.users.RotateRefreshToken(r.Context(), oid, cookie.Value, refresh); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Stored token already rotated or cleared; this one is stale.
			h.clearRefreshCookie(w)
			web.Fail(w, http.StatusUnauthorized, web.CodeInvalidToken, "refresh token no longer valid")
			return
		}
		log.Printf("rotate refresh token: %v", err)
		web.Internal(w)
		return
	}

	h.setRefreshCookie(w, refresh)
	web.JSON(w, http.StatusOK, tokenResponse{AccessToken: access})
}

// Logout clears the stored refresh token and the cookie. Best effort: a
// missing or garbled cookie still gets a success response.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshCookie); err == nil && cookie.Value != "" {
		if userID, err := h.tokens.Verify(cookie.Value, RefreshToken); err == nil {
			if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
				if err := h.users.SetRefreshToken(r.Context(), oid, ""); err != nil {
					log.Printf("clear refresh token: %v", err)
				}
			}
		}
	}
	h.clearRefreshCookie(w)
	web.Message(w, http.StatusOK, "logged out")
}

// Profile returns the identity resolved by the access guard.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		web.Fail(w, http.StatusUnauthorized, web.CodeUnauthenticated, "not authenticated")
		return
	}
	web.JSON(w, http.StatusOK, map[string]*models.User{"user": user})
}

// startSession issues the token pair, persists the refresh token on the user
// document, and sets the cookie. Shared by Register and Login.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) (string, bool) {
	access, err := h.tokens.IssueAccess(user.ID.Hex())
	if err != nil {
		log.Printf("issue access token: %v", err)
		web.Internal(w)
		return "", false
	}
	refresh, err := h.tokens.IssueRefresh(user.ID.Hex())
	if err != nil {
		log.Printf("issue refresh token: %v", err)
		web.Internal(w)
		return "", false
	}
	if err := h.users.SetRefreshToken(r.Context(), user.ID, refresh); err != nil {
		log.Printf("store refresh token: %v", err)
		web.Internal(w)
		return "", false
	}
	h.setRefreshCookie(w, refresh)
	return access, true
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.tokens.RefreshTTL().Seconds()),
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
