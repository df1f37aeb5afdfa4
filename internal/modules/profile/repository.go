package profile

import "context"

// Repository defines data access for customer profiles.
type Repository interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	UpdateContact(ctx context.Context, id string, req UpdateContactRequest) error
}
