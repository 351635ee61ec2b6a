package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := NewFileRepo(t.TempDir())
	require.NoError(t, err)
	return NewService(repo, "test-secret", time.Hour, nil)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register("not-an-email", "longenough")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register("alice@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	pub, err := svc.Register("  Alice@Example.COM ", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", pub.Email)
	assert.NotEmpty(t, pub.ID)

	_, err = svc.Register("alice@example.com", "hunter2hunter2")
	assert.Error(t, err, "duplicate email")
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	pub, err := svc.Register("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, got, err := svc.Login("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, pub.ID, got.ID)

	u, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, u.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = svc.Login("alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_RejectsForgedAndExpiredTokens(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret.
	other := NewService(svc.repo, "other-secret", time.Hour, nil)
	forged, _, err := other.Login("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, err = svc.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Token already expired at issue time.
	expired := &Service{repo: svc.repo, secret: svc.secret, tokenTTL: -time.Minute, logger: zap.NewNop()}
	tok, _, err := expired.Login("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireAPI_GuardsHandler(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	token, _, err := svc.Login("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	var seen User
	handler := svc.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = u
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "alice@example.com", seen.Email)
}
