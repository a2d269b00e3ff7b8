package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Repository is the persistence contract of the order engine. Save is a
// compare-and-swap: it must fail with shared.ErrConflict when the stored
// status no longer matches expectedStatus, so two concurrent transitions on
// the same order cannot both succeed against a stale read. Orders are
// independent units of concurrency; no cross-order ordering is required.
type Repository interface {
	Create(ctx context.Context, o Order) (int64, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error)
	Save(ctx context.Context, o Order, expectedStatus Status) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const orderColumns = `id, user_id, name, customer_name, customer_phone, openings,
	abjour_type, main_color, blade_width, price_per_sqm, overridden_price_per_sqm,
	total_area, total_cost, status, is_archived, is_edit_requested,
	has_delivery, has_installation, delivery_address, delivery_cost,
	scheduled_delivery_date, actual_delivery_date, rating, review,
	created_at, updated_at`

func (r *pgRepository) Create(ctx context.Context, o Order) (int64, error) {
	openingsJSON, err := json.Marshal(o.Openings)
	if err != nil {
		return 0, fmt.Errorf("orders: marshal openings: %w", err)
	}
	var id int64
	err = r.pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, name, customer_name, customer_phone, openings,
			abjour_type, main_color, blade_width, price_per_sqm, overridden_price_per_sqm,
			total_area, total_cost, status, is_archived, is_edit_requested,
			has_delivery, has_installation, delivery_address, delivery_cost,
			scheduled_delivery_date, actual_delivery_date, rating, review,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,NOW(),NOW())
		RETURNING id`,
		o.UserID, o.Name, o.CustomerName, o.CustomerPhone, openingsJSON,
		o.AbjourType, o.MainColor, o.BladeWidth, o.PricePerSquareMeter, o.OverriddenPricePerSquareMeter,
		o.TotalArea, o.TotalCost, o.Status, o.IsArchived, o.IsEditRequested,
		o.HasDelivery, o.HasInstallation, o.DeliveryAddress, o.DeliveryCost,
		o.ScheduledDeliveryDate, o.ActualDeliveryDate, o.Rating, o.Review,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("orders: insert: %w", err)
	}
	return id, nil
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns), id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", shared.ErrNotFound, id)
		}
		return nil, err
	}
	return o, nil
}

func (r *pgRepository) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if req.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *req.UserID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if !req.IncludeArchived {
		conditions = append(conditions, "NOT is_archived")
	}
	if req.EditRequested != nil {
		conditions = append(conditions, fmt.Sprintf("is_edit_requested = $%d", argPos))
		args = append(args, *req.EditRequested)
		argPos++
	}
	if req.CreatedFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *req.CreatedFrom)
		argPos++
	}
	if req.CreatedTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *req.CreatedTo)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM orders %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("orders: count: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	result := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *o)
	}
	return result, total, rows.Err()
}

func (r *pgRepository) Save(ctx context.Context, o Order, expectedStatus Status) error {
	openingsJSON, err := json.Marshal(o.Openings)
	if err != nil {
		return fmt.Errorf("orders: marshal openings: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET
			name = $3, customer_name = $4, customer_phone = $5, openings = $6,
			main_color = $7, overridden_price_per_sqm = $8,
			total_area = $9, total_cost = $10, status = $11,
			is_archived = $12, is_edit_requested = $13,
			has_delivery = $14, has_installation = $15,
			delivery_address = $16, delivery_cost = $17,
			scheduled_delivery_date = $18, actual_delivery_date = $19,
			rating = $20, review = $21, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		o.ID, expectedStatus,
		o.Name, o.CustomerName, o.CustomerPhone, openingsJSON,
		o.MainColor, o.OverriddenPricePerSquareMeter,
		o.TotalArea, o.TotalCost, o.Status,
		o.IsArchived, o.IsEditRequested,
		o.HasDelivery, o.HasInstallation,
		o.DeliveryAddress, o.DeliveryCost,
		o.ScheduledDeliveryDate, o.ActualDeliveryDate,
		o.Rating, o.Review,
	)
	if err != nil {
		return fmt.Errorf("orders: save: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, o.ID).Scan(&exists); err != nil {
			return fmt.Errorf("orders: save precondition check: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: order %d", shared.ErrNotFound, o.ID)
		}
		return fmt.Errorf("%w: order %d status changed since read", shared.ErrConflict, o.ID)
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var openingsJSON []byte
	var overridden pgtype.Float8
	var deliveryAddress, review pgtype.Text
	var scheduled, actual pgtype.Timestamptz
	var rating pgtype.Int4

	err := row.Scan(
		&o.ID, &o.UserID, &o.Name, &o.CustomerName, &o.CustomerPhone, &openingsJSON,
		&o.AbjourType, &o.MainColor, &o.BladeWidth, &o.PricePerSquareMeter, &overridden,
		&o.TotalArea, &o.TotalCost, &o.Status, &o.IsArchived, &o.IsEditRequested,
		&o.HasDelivery, &o.HasInstallation, &deliveryAddress, &o.DeliveryCost,
		&scheduled, &actual, &rating, &review,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(openingsJSON, &o.Openings); err != nil {
		return nil, fmt.Errorf("orders: unmarshal openings: %w", err)
	}
	if overridden.Valid {
		val := overridden.Float64
		o.OverriddenPricePerSquareMeter = &val
	}
	if deliveryAddress.Valid {
		val := deliveryAddress.String
		o.DeliveryAddress = &val
	}
	if scheduled.Valid {
		val := scheduled.Time
		o.ScheduledDeliveryDate = &val
	}
	if actual.Valid {
		val := actual.Time
		o.ActualDeliveryDate = &val
	}
	if rating.Valid {
		val := int(rating.Int32)
		o.Rating = &val
	}
	if review.Valid {
		val := review.String
		o.Review = &val
	}
	return &o, nil
}
