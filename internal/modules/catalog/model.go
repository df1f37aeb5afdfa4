package catalog

import (
	"time"

	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/google/uuid"
)

// Product is a curated item staff list on the storefront. Customers still order
// it through a draft by its external link.
type Product struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	ImageRef     string      `json:"image_ref,omitempty"`
	Price        pricing.USD `json:"price"`
	ExternalLink string      `json:"external_link"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ProductRequest holds the data for creating or updating a product.
type ProductRequest struct {
	Title        string      `json:"title"`
	ImageRef     string      `json:"image_ref"`
	Price        pricing.USD `json:"price"`
	ExternalLink string      `json:"external_link"`
}

// ActiveRequest toggles storefront visibility.
type ActiveRequest struct {
	IsActive bool `json:"is_active"`
}
