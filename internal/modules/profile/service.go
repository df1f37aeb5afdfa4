package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service defines the interface for profile-related business logic.
type Service interface {
	RegisterCustomer(ctx context.Context, req RegisterRequest) (*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (*Profile, error)
}

type service struct {
	repo Repository
}

// NewService creates a new profile service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) RegisterCustomer(ctx context.Context, req RegisterRequest) (*Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.New(errs.KindInvalidInput, "a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, errs.New(errs.KindInvalidInput, "password must be at least 8 characters")
	}

	existing, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errs.New(errs.KindInvalidInput, "email %s is already registered", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         RoleCustomer,
	}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetProfileByID(ctx, id)
}

func (s *service) UpdateContact(ctx context.Context, id string, req UpdateContactRequest) (*Profile, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	req.City = strings.TrimSpace(req.City)
	req.Address = strings.TrimSpace(req.Address)
	if req.Phone == "" || req.City == "" || req.Address == "" {
		return nil, errs.New(errs.KindInvalidInput, "phone, city and address are all required")
	}
	if err := s.repo.UpdateContact(ctx, id, req); err != nil {
		return nil, err
	}
	return s.repo.GetProfileByID(ctx, id)
}
