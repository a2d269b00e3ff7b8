// Package catalog manages the abjour material masterdata and its stock.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Material describes one product line: its slat geometry, rate and inventory.
type Material struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	BladeWidth          float64   `json:"blade_width"` // cm, physical slat height
	PricePerSquareMeter float64   `json:"price_per_square_meter"`
	Colors              []string  `json:"colors"`
	StockM2             float64   `json:"stock_m2"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ErrInsufficientStock is returned when a draw would leave stock negative.
// Orders are rejected rather than backordered. It wraps shared.ErrConflict
// so the HTTP layer reports it as 409.
var ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", shared.ErrConflict)

// ErrDuplicateName indicates the material name is already taken.
var ErrDuplicateName = errors.New("catalog: material name already exists")
