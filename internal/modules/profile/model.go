package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role separates customers from staff operating the fulfillment pipeline.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
)

// Profile is a customer identity with its contact details and points balance.
// PointsBalance is read-only here; only the ledger module writes it.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	Role          Role      `json:"role"`
	Phone         string    `json:"phone,omitempty"`
	City          string    `json:"city,omitempty"`
	Address       string    `json:"address,omitempty"`
	PointsBalance int64     `json:"points_balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasDeliveryDetails reports whether the profile can receive a delivery.
func (p *Profile) HasDeliveryDetails() bool {
	return strings.TrimSpace(p.Phone) != "" &&
		strings.TrimSpace(p.City) != "" &&
		strings.TrimSpace(p.Address) != ""
}

// RegisterRequest is the payload for creating a customer account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateContactRequest replaces the delivery contact fields.
type UpdateContactRequest struct {
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Address string `json:"address"`
}
