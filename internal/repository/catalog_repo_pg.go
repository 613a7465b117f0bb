package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gvirgo2/touropia/internal/domain"
)

type CatalogRepository interface {
	ListByKind(ctx context.Context, kind domain.ItemKind) ([]domain.CatalogItem, error)
	GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error)
	Create(ctx context.Context, item *domain.CatalogItem) error
	Update(ctx context.Context, item *domain.CatalogItem) error
	Delete(ctx context.Context, id int64) error
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

func (r *PGCatalogRepository) ListByKind(ctx context.Context, kind domain.ItemKind) ([]domain.CatalogItem, error) {
	rows, err := r.db.Query(ctx, `SELECT id, kind, title, description, location, image_url, price_cents, max_guests, created_at, updated_at FROM catalog_items WHERE kind=$1 ORDER BY title`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.Title, &item.Description, &item.Location, &item.ImageURL, &item.PriceCents, &item.MaxGuests, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PGCatalogRepository) GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	row := r.db.QueryRow(ctx, `SELECT id, kind, title, description, location, image_url, price_cents, max_guests, created_at, updated_at FROM catalog_items WHERE id=$1`, id)
	var item domain.CatalogItem
	if err := row.Scan(&item.ID, &item.Kind, &item.Title, &item.Description, &item.Location, &item.ImageURL, &item.PriceCents, &item.MaxGuests, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PGCatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	return r.db.QueryRow(ctx, `INSERT INTO catalog_items (kind, title, description, location, image_url, price_cents, max_guests)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		item.Kind, item.Title, item.Description, item.Location, item.ImageURL, item.PriceCents, item.MaxGuests).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PGCatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	cmd, err := r.db.Exec(ctx, `UPDATE catalog_items SET title=$1, description=$2, location=$3, image_url=$4, price_cents=$5, max_guests=$6, updated_at=now() WHERE id=$7`,
		item.Title, item.Description, item.Location, item.ImageURL, item.PriceCents, item.MaxGuests, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("catalog item not found")
	}
	return nil
}

func (r *PGCatalogRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM catalog_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("catalog item not found")
	}
	return nil
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
