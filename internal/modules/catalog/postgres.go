package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const productColumns = `id, title, image_ref, price_usd, external_link, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catalog_products (id, title, image_ref, price_usd, external_link, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Title, p.ImageRef, p.Price, p.ExternalLink, p.IsActive, p.CreatedAt, p.UpdatedAt)
	return err
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var imageRef sql.NullString
	err := scan(&p.ID, &p.Title, &imageRef, &p.Price, &p.ExternalLink, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ImageRef = imageRef.String
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM catalog_products WHERE id=$1`, id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.KindNotFound, "product %s not found", id)
	}
	return p, err
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM catalog_products`
	if activeOnly {
		query += ` WHERE is_active=true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE catalog_products
		SET title=$1, image_ref=$2, price_usd=$3, external_link=$4, is_active=$5, updated_at=$6
		WHERE id=$7`,
		p.Title, p.ImageRef, p.Price, p.ExternalLink, p.IsActive, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.New(errs.KindNotFound, "product %s not found", p.ID)
	}
	return nil
}
