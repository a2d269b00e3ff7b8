package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Repository is the persistence contract for suppliers.
type Repository interface {
	Create(ctx context.Context, s Supplier) (int64, error)
	Get(ctx context.Context, id int64) (*Supplier, error)
	List(ctx context.Context) ([]Supplier, error)
	Update(ctx context.Context, s Supplier) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) Create(ctx context.Context, s Supplier) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO suppliers (code, name, address, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`,
		s.Code, s.Name, s.Address, s.Email, s.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("suppliers: insert: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, name, address, email, phone, created_at, updated_at
		FROM suppliers WHERE id = $1`, id,
	).Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: supplier %d", shared.ErrNotFound, id)
		}
		return nil, err
	}
	return &s, nil
}

func (r *pgRepository) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, name, address, email, phone, created_at, updated_at
		FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("suppliers: list: %w", err)
	}
	defer rows.Close()

	var result []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *pgRepository) Update(ctx context.Context, s Supplier) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE suppliers SET code = $2, name = $3, address = $4, email = $5, phone = $6, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.Code, s.Name, s.Address, s.Email, s.Phone)
	if err != nil {
		return fmt.Errorf("suppliers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplier %d", shared.ErrNotFound, s.ID)
	}
	return nil
}
