package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/taskflow/internal/auth"
	"github.com/ayush/taskflow/internal/models"
	"github.com/ayush/taskflow/internal/web"
)

type fakeResolver struct {
	users map[string]*models.User
}

func (f *fakeResolver) GetByID(_ context.Context, id string, _ bool) (*models.User, error) {
	return f.users[id], nil
}

func guardEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (code string) {
	t.Helper()
	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	return env.Error
}

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
	expiredIssuer := auth.NewTokenIssuer("access-secret", "refresh-secret", -time.Minute, 720*time.Hour)

	user := &models.User{ID: primitive.NewObjectID(), Name: "Jo Lee", Email: "jo@example.com"}
	resolver := &fakeResolver{users: map[string]*models.User{user.ID.Hex(): user}}

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(issuer, resolver)(next)

	validToken, err := issuer.IssueAccess(user.ID.Hex())
	require.NoError(t, err)
	expiredToken, err := expiredIssuer.IssueAccess(user.ID.Hex())
	require.NoError(t, err)
	refreshToken, err := issuer.IssueRefresh(user.ID.Hex())
	require.NoError(t, err)
	ghostToken, err := issuer.IssueAccess(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	cases := []struct {
		name     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"no header", "", http.StatusUnauthorized, web.CodeUnauthenticated},
		{"wrong scheme", "Token " + validToken, http.StatusUnauthorized, web.CodeUnauthenticated},
		{"bare token", validToken, http.StatusUnauthorized, web.CodeUnauthenticated},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized, web.CodeInvalidToken},
		{"refresh token as access", "Bearer " + refreshToken, http.StatusUnauthorized, web.CodeInvalidToken},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, web.CodeTokenExpired},
		{"deleted user", "Bearer " + ghostToken, http.StatusUnauthorized, web.CodeUnauthenticated},
		{"valid", "Bearer " + validToken, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", "/api/v1/tasks", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tc.wantCode, rec.Code)
			if tc.wantErr != "" {
				assert.Equal(t, tc.wantErr, guardEnvelope(t, rec))
				assert.Nil(t, seen, "guard must not run the downstream handler")
			} else {
				require.NotNil(t, seen)
				assert.Equal(t, user.ID, seen.ID)
			}
		})
	}
}
