package procurement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Repository persists purchases.
type Repository interface {
	Create(ctx context.Context, p Purchase) (int64, error)
	Get(ctx context.Context, id int64) (*Purchase, error)
	List(ctx context.Context) ([]Purchase, error)
	// Save writes mutable fields only when the stored status still matches
	// expected, so a purchase cannot be received twice concurrently.
	Save(ctx context.Context, p Purchase, expected Status) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const purchaseColumns = `id, number, supplier_id, material_name, quantity_m2, unit_cost, status, note, ordered_at, received_at, created_at, updated_at`

func (r *pgRepository) Create(ctx context.Context, p Purchase) (int64, error) {
	const q = `
INSERT INTO purchases (number, supplier_id, material_name, quantity_m2, unit_cost, status, note, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
RETURNING id`
	var id int64
	if err := r.pool.QueryRow(ctx, q, p.Number, p.SupplierID, p.MaterialName, p.QuantityM2, p.UnitCost, p.Status, p.Note).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert purchase: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Purchase, error) {
	q := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: purchase %d", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

func (r *pgRepository) List(ctx context.Context) ([]Purchase, error) {
	q := `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *pgRepository) Save(ctx context.Context, p Purchase, expected Status) error {
	const q = `
UPDATE purchases
SET status = $1, note = $2, ordered_at = $3, received_at = $4, updated_at = NOW()
WHERE id = $5 AND status = $6`
	tag, err := r.pool.Exec(ctx, q, p.Status, p.Note, p.OrderedAt, p.ReceivedAt, p.ID, expected)
	if err != nil {
		return fmt.Errorf("save purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM purchases WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check purchase: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: purchase %d", shared.ErrNotFound, p.ID)
		}
		return fmt.Errorf("%w: purchase %d changed status", shared.ErrConflict, p.ID)
	}
	return nil
}

func scanPurchase(row pgx.Row) (*Purchase, error) {
	var (
		p          Purchase
		note       pgtype.Text
		orderedAt  pgtype.Timestamptz
		receivedAt pgtype.Timestamptz
	)
	if err := row.Scan(&p.ID, &p.Number, &p.SupplierID, &p.MaterialName, &p.QuantityM2, &p.UnitCost, &p.Status, &note, &orderedAt, &receivedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Note = note.String
	if orderedAt.Valid {
		t := orderedAt.Time
		p.OrderedAt = &t
	}
	if receivedAt.Valid {
		t := receivedAt.Time
		p.ReceivedAt = &t
	}
	return &p, nil
}
