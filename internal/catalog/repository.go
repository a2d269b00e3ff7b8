package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abjour-erp/abjour-erp/internal/platform/db"
	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Repository is the persistence contract for materials. AdjustStock must be
// atomic per material: the read-check-write of the stock quantity happens
// under a row lock so concurrent draws cannot both pass the non-negative
// check.
type Repository interface {
	Create(ctx context.Context, m Material) (int64, error)
	GetByName(ctx context.Context, name string) (*Material, error)
	List(ctx context.Context) ([]Material, error)
	Update(ctx context.Context, m Material) error
	// AdjustStock applies a signed delta and fails with ErrInsufficientStock
	// when the result would be negative.
	AdjustStock(ctx context.Context, name string, deltaM2 float64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) Create(ctx context.Context, m Material) (int64, error) {
	colorsJSON, err := json.Marshal(m.Colors)
	if err != nil {
		return 0, fmt.Errorf("catalog: marshal colors: %w", err)
	}
	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO materials (name, blade_width, price_per_sqm, colors, stock_m2, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`,
		m.Name, m.BladeWidth, m.PricePerSquareMeter, colorsJSON, m.StockM2,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateName
		}
		return 0, fmt.Errorf("catalog: insert: %w", err)
	}
	return id, nil
}

func (r *pgRepository) GetByName(ctx context.Context, name string) (*Material, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, blade_width, price_per_sqm, colors, stock_m2, created_at, updated_at
		FROM materials WHERE name = $1`, name)
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: material %q", shared.ErrNotFound, name)
		}
		return nil, err
	}
	return m, nil
}

func (r *pgRepository) List(ctx context.Context) ([]Material, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, blade_width, price_per_sqm, colors, stock_m2, created_at, updated_at
		FROM materials ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var result []Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *pgRepository) Update(ctx context.Context, m Material) error {
	colorsJSON, err := json.Marshal(m.Colors)
	if err != nil {
		return fmt.Errorf("catalog: marshal colors: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE materials SET blade_width = $2, price_per_sqm = $3, colors = $4, updated_at = NOW()
		WHERE name = $1`,
		m.Name, m.BladeWidth, m.PricePerSquareMeter, colorsJSON)
	if err != nil {
		return fmt.Errorf("catalog: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: material %q", shared.ErrNotFound, m.Name)
	}
	return nil
}

func (r *pgRepository) AdjustStock(ctx context.Context, name string, deltaM2 float64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var stock float64
		err := tx.QueryRow(ctx, `SELECT stock_m2 FROM materials WHERE name = $1 FOR UPDATE`, name).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: material %q", shared.ErrNotFound, name)
			}
			return fmt.Errorf("catalog: lock stock: %w", err)
		}
		newStock := stock + deltaM2
		if newStock < 0 {
			return fmt.Errorf("%w: %s has %.2f m2, need %.2f m2", ErrInsufficientStock, name, stock, -deltaM2)
		}
		_, err = tx.Exec(ctx, `UPDATE materials SET stock_m2 = $2, updated_at = NOW() WHERE name = $1`, name, newStock)
		return err
	})
}

func scanMaterial(row pgx.Row) (*Material, error) {
	var m Material
	var colorsJSON []byte
	err := row.Scan(&m.ID, &m.Name, &m.BladeWidth, &m.PricePerSquareMeter, &colorsJSON, &m.StockM2, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(colorsJSON, &m.Colors); err != nil {
		return nil, fmt.Errorf("catalog: unmarshal colors: %w", err)
	}
	return &m, nil
}
