package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService backs the gate with a fixed set of users.
type fakeUserService struct {
	users map[string]models.User
}

func (f *fakeUserService) GetUserByID(id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, services.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserService) CreateUser(services.CreateUserInput) (models.User, error) {
	return models.User{}, nil
}
func (f *fakeUserService) GetUserByEmail(string) (models.User, error) {
	return models.User{}, services.ErrNotFound
}
func (f *fakeUserService) AuthenticateUser(string, string) (models.User, error) {
	return models.User{}, services.ErrInvalidCredentials
}
func (f *fakeUserService) UpdateProfile(string, map[string]string) (models.User, error) {
	return models.User{}, services.ErrNotFound
}
func (f *fakeUserService) UpdatePassword(string, string, string) error { return services.ErrNotFound }
func (f *fakeUserService) GetUserStats(string) (models.UserStats, error) {
	return models.UserStats{}, nil
}
func (f *fakeUserService) ListUsers(int, int) ([]models.UserSummary, error) { return nil, nil }
func (f *fakeUserService) VerifyEmail(string) error                         { return nil }

func gateFixture(t *testing.T) (*TokenService, http.Handler) {
	t.Helper()

	tokens := NewTokenService("gate-test-secret", time.Hour)
	users := &fakeUserService{users: map[string]models.User{
		"active-1":   {ID: "active-1", Email: "a@b.com", PasswordHash: "hash", IsActive: true, Role: "student"},
		"inactive-1": {ID: "inactive-1", Email: "c@d.com", PasswordHash: "hash", IsActive: false, Role: "student"},
	}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return tokens, Middleware(tokens, users)(next)
}

func TestGateRejectsMissingToken(t *testing.T) {
	_, gate := gateFixture(t)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestGateRejectsMalformedHeader(t *testing.T) {
	tokens, gate := gateFixture(t)

	token, err := tokens.Issue("active-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token) // no "Bearer " prefix
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateRejectsInvalidToken(t *testing.T) {
	_, gate := gateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateRejectsUnknownUser(t *testing.T) {
	tokens, gate := gateFixture(t)

	token, err := tokens.Issue("deleted-user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateRejectsInactiveAccount(t *testing.T) {
	tokens, gate := gateFixture(t)

	token, err := tokens.Issue("inactive-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGateAttachesSanitizedUser(t *testing.T) {
	tokens := NewTokenService("gate-test-secret", time.Hour)
	users := &fakeUserService{users: map[string]models.User{
		"active-1": {ID: "active-1", Email: "a@b.com", PasswordHash: "hash", IsActive: true, Role: "student"},
	}}

	var attached models.User
	var sawUser bool
	gate := Middleware(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attached, sawUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := tokens.Issue("active-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, sawUser)
	assert.Equal(t, "active-1", attached.ID)
	assert.Empty(t, attached.PasswordHash, "gate must attach a sanitized user")
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokenService("gate-test-secret", time.Hour)
	users := &fakeUserService{users: map[string]models.User{
		"student-1": {ID: "student-1", IsActive: true, Role: "student"},
		"admin-1":   {ID: "admin-1", IsActive: true, Role: "admin"},
	}}

	handler := Middleware(tokens, users)(RequireRole("admin")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })))

	studentToken, err := tokens.Issue("student-1")
	require.NoError(t, err)
	adminToken, err := tokens.Issue("admin-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "student", "rejection should name the offending role")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
