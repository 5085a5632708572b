package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, slug, COALESCE(description, ''), parent_id, display_order, active, created_on, updated_on`

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (name, slug, description, parent_id, display_order, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	now := time.Now()
	c.CreatedOn = now
	c.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description, c.ParentID, c.DisplayOrder, c.Active, now).Scan(&c.ID)
}

func (r *categoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	c := &domain.Category{}
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.DisplayOrder, &c.Active, &c.CreatedOn, &c.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name=$1, slug=$2, description=$3, parent_id=$4, display_order=$5, active=$6, updated_on=$7 WHERE id=$8`
	c.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, c.Name, c.Slug, c.Description, c.ParentID, c.DisplayOrder, c.Active, c.UpdatedOn, c.ID)
	return err
}

func (r *categoryRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY display_order, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.DisplayOrder, &c.Active, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
