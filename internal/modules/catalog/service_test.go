package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]Product
}

func newMemRepo() *memRepo { return &memRepo{products: map[uuid.UUID]Product{}} }

func (m *memRepo) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = *p
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "product %s not found", id)
	}
	return &p, nil
}

func (m *memRepo) List(_ context.Context, activeOnly bool) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if activeOnly && !p.IsActive {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return errs.New(errs.KindNotFound, "product %s not found", p.ID)
	}
	m.products[p.ID] = *p
	return nil
}

func req(title, price string) ProductRequest {
	return ProductRequest{
		Title:        title,
		ImageRef:     "blob://catalog/" + title + ".jpg",
		Price:        pricing.MustUSD(price),
		ExternalLink: "https://www.amazon.com/dp/" + title,
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		req  ProductRequest
		want *errs.Error
	}{
		{"blank title", req("  ", "5.00"), errs.ErrInvalidInput},
		{"relative link", ProductRequest{Title: "x", Price: pricing.MustUSD("1"), ExternalLink: "amazon.com/x"}, errs.ErrInvalidInput},
		{"zero price", req("lamp", "0"), errs.ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListAndToggle(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	lamp, err := svc.CreateProduct(ctx, req("lamp", "12.50"))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	mug, err := svc.CreateProduct(ctx, req("mug", "4.00"))
	require.NoError(t, err)
	assert.True(t, mug.IsActive)

	list, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, mug.ID, list[0].ID)

	_, err = svc.SetActive(ctx, lamp.ID.String(), false)
	require.NoError(t, err)
	list, err = svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)

	all, err := svc.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := svc.UpdateProduct(ctx, mug.ID.String(), req("big-mug", "6.00"))
	require.NoError(t, err)
	assert.Equal(t, "big-mug", updated.Title)
	assert.Equal(t, "6.00", updated.Price.String())

	_, err = svc.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestHandler_HidesInactiveProducts(t *testing.T) {
	svc := NewService(newMemRepo())
	p, err := svc.CreateProduct(context.Background(), req("lamp", "12.50"))
	require.NoError(t, err)
	_, err = svc.SetActive(context.Background(), p.ID.String(), false)
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(svc).RegisterPublicRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/"+p.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/products", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}
