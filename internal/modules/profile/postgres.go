package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `id, email, password_hash, first_name, last_name, role,
	phone, city, address, points_balance, created_at, updated_at`

func (r *postgresRepository) CreateProfile(ctx context.Context, p *Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, password_hash, first_name, last_name, role, phone, city, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Email, p.PasswordHash, p.FirstName, p.LastName, p.Role, p.Phone, p.City, p.Address)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
}

func (r *postgresRepository) GetProfileByID(ctx context.Context, id string) (*Profile, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, errs.New(errs.KindNotFound, "profile %q not found", id)
	}
	return scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, parsedID))
}

func (r *postgresRepository) UpdateContact(ctx context.Context, id string, req UpdateContactRequest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET phone = $1, city = $2, address = $3, updated_at = $4
		WHERE id = $5`,
		req.Phone, req.City, req.Address, time.Now(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.KindNotFound, "profile %s not found", id)
	}
	return nil
}

func scanProfile(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	var first, last, phone, city, address sql.NullString
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&first,
		&last,
		&p.Role,
		&phone,
		&city,
		&address,
		&p.PointsBalance,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.KindNotFound, "profile not found")
	}
	if err != nil {
		return nil, err
	}
	p.FirstName, p.LastName = first.String, last.String
	p.Phone, p.City, p.Address = phone.String, city.String, address.String
	return p, nil
}
