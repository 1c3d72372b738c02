package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"okane/internal/model"
	"okane/internal/token"
)

type stubAuthenticator struct {
	claims  *token.Claims
	tokErr  error
	user    model.AuthUser
	userErr error
}

func (s stubAuthenticator) ValidateAccessToken(string) (*token.Claims, error) {
	return s.claims, s.tokErr
}

func (s stubAuthenticator) GetUserByID(context.Context, string) (model.AuthUser, error) {
	return s.user, s.userErr
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(user.Email))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	okAuth := stubAuthenticator{
		claims: &token.Claims{UserID: "user-1"},
		user:   model.AuthUser{ID: "user-1", Email: "a@b.test", Role: "user"},
	}

	tests := []struct {
		name       string
		auth       stubAuthenticator
		authHeader string
		wantStatus int
	}{
		{"no header", okAuth, "", http.StatusUnauthorized},
		{"not bearer", okAuth, "Basic abc", http.StatusUnauthorized},
		{"expired token", stubAuthenticator{tokErr: model.ErrTokenExpired}, "Bearer x", http.StatusUnauthorized},
		{"malformed token", stubAuthenticator{tokErr: model.ErrTokenMalformed}, "Bearer x", http.StatusUnauthorized},
		{"subject deleted", stubAuthenticator{claims: &token.Claims{UserID: "gone"}, userErr: model.ErrUserNotFound}, "Bearer x", http.StatusUnauthorized},
		{"lookup failure", stubAuthenticator{claims: &token.Claims{UserID: "user-1"}, userErr: errors.New("connection refused")}, "Bearer x", http.StatusServiceUnavailable},
		{"valid", okAuth, "Bearer x", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAuthMiddleware(tc.auth).RequireAuth(echoUser())

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus == http.StatusOK {
				require.Equal(t, "a@b.test", rec.Body.String())
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	auth := stubAuthenticator{
		claims: &token.Claims{UserID: "user-1"},
		user:   model.AuthUser{ID: "user-1", Email: "a@b.test", Role: "user"},
	}

	mw := NewAuthMiddleware(auth)

	t.Run("role not allowed", func(t *testing.T) {
		handler := mw.RequireAuth(mw.RequireRoles("admin")(echoUser()))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer x")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("role allowed", func(t *testing.T) {
		handler := mw.RequireAuth(mw.RequireRoles("admin", "user")(echoUser()))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer x")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no auth context", func(t *testing.T) {
		handler := mw.RequireRoles("user")(echoUser())

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
