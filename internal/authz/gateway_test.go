package authz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutripae-rh/pkg/config"
	apperrors "nutripae-rh/pkg/errors"
)

var testSigningKey = []byte("test-signing-key")

type fakeClaims struct {
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

func signToken(t *testing.T, subject, email string, perms ...string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, fakeClaims{
		Email:       email,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(testSigningKey)
	require.NoError(t, err)
	return signed
}

// fakeAuthService behaves like NutriPAE-AUTH: it verifies the bearer token and compares the
// token's permissions against required_permissions.
type fakeAuthService struct {
	calls       atomic.Int32
	lastRequest checkRequest
	lastHeaders http.Header
}

func (f *fakeAuthService) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.lastHeaders = r.Header.Clone()

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/authorization/check-authorization", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastRequest))

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims := &fakeClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return testSigningKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Token signature is invalid"})
			return
		}

		granted := map[string]bool{}
		for _, p := range claims.Permissions {
			granted[p] = true
		}
		var missing []string
		for _, p := range f.lastRequest.RequiredPermissions {
			if !granted[p] {
				missing = append(missing, p)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"authorized":          len(missing) == 0,
			"user_id":             json.Number(claims.Subject),
			"user_email":          claims.Email,
			"missing_permissions": missing,
		})
	}
}

func newTestGateway(t *testing.T, h http.Handler, timeout time.Duration) *Gateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.AuthServiceConfig{
		URL:              srv.URL + "/api/v1/",
		ModuleIdentifier: "nutripae-rh",
		Timeout:          timeout,
	}
	return NewGateway(cfg, "/api/v1", srv.Client(), zap.NewNop())
}

func TestPermission_Tag(t *testing.T) {
	assert.Equal(t, "nutripae-rh:create", PermissionCreate.Tag("nutripae-rh"))
	assert.Equal(t, "nutripae-rh:read", PermissionRead.Tag("nutripae-rh"))
	assert.Equal(t, "nutripae-rh:list", PermissionList.Tag("nutripae-rh"))
	assert.Equal(t, "nutripae-rh:update", PermissionUpdate.Tag("nutripae-rh"))
	assert.Equal(t, "nutripae-rh:delete", PermissionDelete.Tag("nutripae-rh"))
	assert.False(t, Permission(0).Valid())
}

func TestGateway_Endpoint(t *testing.T) {
	g := NewGateway(config.AuthServiceConfig{ModuleIdentifier: "nutripae-rh"}, "/api/v1", nil, zap.NewNop())

	assert.Equal(t, "nutripae-rh/availabilities/", g.Endpoint("/api/v1/availabilities/"))
	assert.Equal(t, "nutripae-rh/employees/7", g.Endpoint("/api/v1/employees/7"))
	assert.Equal(t, "nutripae-rh/health", g.Endpoint("/health"))
}

func TestGateway_Check_Authorized(t *testing.T) {
	fake := &fakeAuthService{}
	g := newTestGateway(t, fake.handler(t), time.Second)
	token := signToken(t, "42", "ana@example.com", "nutripae-rh:create")

	ctx := WithRequestID(context.Background(), "req-123")
	identity, err := g.Check(ctx, PermissionCreate, http.MethodPost, "/api/v1/availabilities/", token)

	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "42", UserEmail: "ana@example.com"}, identity)
	assert.Equal(t, checkRequest{
		Endpoint:            "nutripae-rh/availabilities/",
		Method:              http.MethodPost,
		RequiredPermissions: []string{"nutripae-rh:create"},
	}, fake.lastRequest)
	assert.Equal(t, "Bearer "+token, fake.lastHeaders.Get("Authorization"))
	assert.Equal(t, "req-123", fake.lastHeaders.Get("X-Request-ID"))
}

func TestGateway_Check_MissingPermissions(t *testing.T) {
	fake := &fakeAuthService{}
	g := newTestGateway(t, fake.handler(t), time.Second)
	token := signToken(t, "42", "ana@example.com", "nutripae-rh:read")

	identity, err := g.Check(context.Background(), PermissionDelete, http.MethodDelete, "/api/v1/employees/1", token)

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Contains(t, err.Error(), "nutripae-rh:delete")
	assert.Equal(t, "You do not have enough permissions. Missing: nutripae-rh:delete", err.Error())
}

func TestGateway_Check_InvalidToken(t *testing.T) {
	fake := &fakeAuthService{}
	g := newTestGateway(t, fake.handler(t), time.Second)

	identity, err := g.Check(context.Background(), PermissionRead, http.MethodGet, "/api/v1/employees/1", "not-a-jwt")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	assert.Equal(t, "Token signature is invalid", err.Error())
}

func TestGateway_Check_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    apperrors.Kind
		message string
	}{
		{"401 without detail", http.StatusUnauthorized, `{}`, apperrors.KindUnauthenticated, "Invalid or expired token"},
		{"401 with non json body", http.StatusUnauthorized, `nope`, apperrors.KindUnauthenticated, "Invalid or expired token"},
		{"403", http.StatusForbidden, `{"detail":"no"}`, apperrors.KindForbidden, "Access forbidden - insufficient permissions"},
		{"500", http.StatusInternalServerError, `boom`, apperrors.KindServiceUnavailable, "Authentication service error"},
		{"502", http.StatusBadGateway, ``, apperrors.KindServiceUnavailable, "Authentication service unavailable"},
		{"404", http.StatusNotFound, ``, apperrors.KindServiceUnavailable, "Authentication service unavailable"},
		{"200 undecodable", http.StatusOK, `<html>`, apperrors.KindInternalAuthorization, "Internal authorization error"},
		{"200 denied without list", http.StatusOK, `{"authorized":false}`, apperrors.KindForbidden, "Access forbidden - insufficient permissions"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}), time.Second)

			identity, err := g.Check(context.Background(), PermissionList, http.MethodGet, "/api/v1/availabilities/", "token")

			assert.Nil(t, identity)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperrors.KindOf(err))
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestGateway_Check_StringUserID(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"authorized":true,"user_id":"a1b2","user_email":"x@y.z","missing_permissions":[]}`))
	}), time.Second)

	identity, err := g.Check(context.Background(), PermissionRead, http.MethodGet, "/api/v1/employees/", "token")

	require.NoError(t, err)
	assert.Equal(t, "a1b2", identity.UserID)
}

func TestGateway_Check_Timeout(t *testing.T) {
	release := make(chan struct{})
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}), 50*time.Millisecond)
	defer close(release)

	identity, err := g.Check(context.Background(), PermissionRead, http.MethodGet, "/api/v1/employees/", "token")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Authentication service timeout", appErr.Message)
}

func TestGateway_Check_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewGateway(config.AuthServiceConfig{URL: url, ModuleIdentifier: "nutripae-rh", Timeout: time.Second}, "/api/v1", nil, zap.NewNop())

	identity, err := g.Check(context.Background(), PermissionRead, http.MethodGet, "/api/v1/employees/", "token")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
}

func TestGateway_Check_UnknownPermission(t *testing.T) {
	fake := &fakeAuthService{}
	g := newTestGateway(t, fake.handler(t), time.Second)

	_, err := g.Check(context.Background(), Permission(99), http.MethodGet, "/api/v1/employees/", "token")

	assert.ErrorIs(t, err, apperrors.ErrInternalAuthorization)
	assert.Equal(t, int32(0), fake.calls.Load())
}

type panickingTransport struct{}

func (panickingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	panic("transport exploded")
}

func TestGateway_Check_RecoversPanic(t *testing.T) {
	g := NewGateway(config.AuthServiceConfig{URL: "http://auth.local", ModuleIdentifier: "nutripae-rh", Timeout: time.Second},
		"/api/v1", &http.Client{Transport: panickingTransport{}}, zap.NewNop())

	identity, err := g.Check(context.Background(), PermissionRead, http.MethodGet, "/api/v1/employees/", "token")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, apperrors.ErrInternalAuthorization)
}

func TestIdentityFromContext(t *testing.T) {
	_, err := IdentityFromContext(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrIdentityNotFound)

	ctx := WithIdentity(context.Background(), &Identity{UserID: "1"})
	identity, err := IdentityFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", identity.UserID)
}
