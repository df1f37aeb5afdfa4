package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubProfiles struct {
	byEmail map[string]*profile.Profile
}

func (s *stubProfiles) CreateProfile(context.Context, *profile.Profile) error { return nil }

func (s *stubProfiles) GetProfileByEmail(_ context.Context, email string) (*profile.Profile, error) {
	p, ok := s.byEmail[email]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "profile not found")
	}
	return p, nil
}

func (s *stubProfiles) GetProfileByID(context.Context, string) (*profile.Profile, error) {
	return nil, errs.New(errs.KindNotFound, "profile not found")
}

func (s *stubProfiles) UpdateContact(context.Context, string, profile.UpdateContactRequest) error {
	return nil
}

func newStub(t *testing.T, role profile.Role) (*stubProfiles, *profile.Profile) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	p := &profile.Profile{ID: uuid.New(), Email: "staff@dalin.example", PasswordHash: string(hash), Role: role}
	return &stubProfiles{byEmail: map[string]*profile.Profile{p.Email: p}}, p
}

func TestLoginAndParse(t *testing.T) {
	profiles, p := newStub(t, profile.RoleStaff)
	svc := NewService(profiles, "test-secret", time.Hour)

	token, err := svc.Login(context.Background(), " STAFF@dalin.example", "s3cret-pass")
	require.NoError(t, err)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, id.CustomerID)
	assert.True(t, id.IsStaff())

	_, err = svc.Login(context.Background(), p.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "nobody@dalin.example", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_Rejects(t *testing.T) {
	profiles, p := newStub(t, profile.RoleCustomer)
	svc := NewService(profiles, "test-secret", time.Hour)

	other := NewService(profiles, "other-secret", time.Hour)
	forged, err := other.Login(context.Background(), p.Email, "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.ParseToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role: "staff",
		StandardClaims: jwt.StandardClaims{
			Subject:   p.ID.String(),
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnknownRoleIsCustomer(t *testing.T) {
	svc := NewService(&stubProfiles{}, "k", time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:           "admin",
		StandardClaims: jwt.StandardClaims{Subject: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour).Unix()},
	})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	id, err := svc.ParseToken(signed)
	require.NoError(t, err)
	assert.False(t, id.IsStaff())
}

func TestMiddleware(t *testing.T) {
	profiles, p := newStub(t, profile.RoleCustomer)
	svc := NewService(profiles, "test-secret", time.Hour)
	token, err := svc.Login(context.Background(), p.Email, "s3cret-pass")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(Authenticate(svc))
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		id, ok := CallerID(r.Context())
		require.True(t, ok)
		w.Write([]byte(id.String()))
	})
	r.With(RequireStaff).Get("/staff", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"customer", "/me", "Bearer " + token, http.StatusOK},
		{"customer on staff route", "/staff", "Bearer " + token, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK && tt.path == "/me" {
				assert.Equal(t, p.ID.String(), strings.TrimSpace(rec.Body.String()))
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	profiles, p := newStub(t, profile.RoleCustomer)
	r := chi.NewRouter()
	NewHandler(NewService(profiles, "test-secret", time.Hour)).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"`+p.Email+`","password":"s3cret-pass"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"`+p.Email+`","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
