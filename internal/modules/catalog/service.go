package catalog

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error)
	SetActive(ctx context.Context, id string, active bool) (*Product, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &Product{
		ID:           uuid.New(),
		Title:        req.Title,
		ImageRef:     req.ImageRef,
		Price:        req.Price,
		ExternalLink: req.ExternalLink,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errs.New(errs.KindNotFound, "product %q not found", id)
	}
	return s.repo.GetByID(ctx, uid)
}

func (s *service) ListProducts(ctx context.Context, activeOnly bool) ([]*Product, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = req.Title
	p.ImageRef = req.ImageRef
	p.Price = req.Price
	p.ExternalLink = req.ExternalLink
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) SetActive(ctx context.Context, id string, active bool) (*Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = active
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func validate(req *ProductRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.ExternalLink = strings.TrimSpace(req.ExternalLink)
	req.ImageRef = strings.TrimSpace(req.ImageRef)
	if req.Title == "" {
		return errs.New(errs.KindInvalidInput, "title is required")
	}
	if u, err := url.ParseRequestURI(req.ExternalLink); err != nil || u.Host == "" {
		return errs.New(errs.KindInvalidInput, "external_link must be an absolute link")
	}
	return pricing.ValidatePrice(req.Price)
}
