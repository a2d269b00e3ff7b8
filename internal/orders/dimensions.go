package orders

import (
	"fmt"
	"math"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

// Fixed adjustment constants for converting a raw opening measurement into
// manufacturing units. The width clearance accounts for the mounting frame;
// the height overlap keeps the blind covering the cavity when lowered; the
// channel margin adds slack above the side tracks.
const (
	widthClearanceCm = 3.5
	heightOverlapCm  = 10.0
	channelMarginCm  = 5.0
)

// Derived holds the manufacturing quantities computed from a raw measurement.
type Derived struct {
	CodeLength    float64 // meters, length of each blade
	NumberOfCodes int     // blade count
	ChannelLength float64 // meters, side-track total, both sides
}

// DeriveFromMeasurement converts a customer-supplied width/height (cm) into
// manufacturing units under the material's blade width. It is pure and
// deterministic; invalid results are rejected, never zeroed into an order.
func DeriveFromMeasurement(widthCm, heightCm, bladeWidthCm float64) (Derived, error) {
	if bladeWidthCm <= 0 {
		return Derived{}, fmt.Errorf("%w: blade width must be positive", shared.ErrValidation)
	}
	if widthCm <= 0 || heightCm <= 0 {
		return Derived{}, fmt.Errorf("%w: width and height must be positive", shared.ErrValidation)
	}

	finalWidth := widthCm - widthClearanceCm
	finalHeight := heightCm + heightOverlapCm

	d := Derived{
		CodeLength: math.Max(finalWidth, 0) / 100,
	}
	if finalHeight > 0 {
		d.NumberOfCodes = int(math.Ceil(finalHeight / bladeWidthCm))
	}
	d.ChannelLength = (heightCm + channelMarginCm) * 2 / 100

	if d.CodeLength <= 0 {
		return Derived{}, fmt.Errorf("%w: opening too narrow (width %.1fcm leaves no blade length)", shared.ErrValidation, widthCm)
	}
	if d.NumberOfCodes < 1 {
		return Derived{}, fmt.Errorf("%w: opening height yields no blades", shared.ErrValidation)
	}
	return d, nil
}

// OpeningInput is the external shape for adding an opening. Either the raw
// measurement pair or the direct manufacturing pair must be supplied; both
// paths converge on the same Opening shape.
type OpeningInput struct {
	Width          *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height         *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	CodeLength     *float64 `json:"code_length,omitempty" validate:"omitempty,gt=0"`
	NumberOfCodes  *int     `json:"number_of_codes,omitempty" validate:"omitempty,gte=1"`
	HasEndCap      bool     `json:"has_end_cap"`
	HasAccessories bool     `json:"has_accessories"`
	Notes          *string  `json:"notes,omitempty"`
}

// BuildOpening normalizes an OpeningInput into an Opening. Direct
// manufacturing values take precedence over derivation when both pairs are
// present. The serial is assigned by the caller.
func BuildOpening(in OpeningInput, bladeWidthCm float64) (Opening, error) {
	op := Opening{
		HasEndCap:      in.HasEndCap,
		HasAccessories: in.HasAccessories,
		Notes:          in.Notes,
	}
	if in.Width != nil {
		op.Width = *in.Width
	}
	if in.Height != nil {
		op.Height = *in.Height
	}

	switch {
	case in.CodeLength != nil && in.NumberOfCodes != nil:
		if *in.CodeLength <= 0 {
			return Opening{}, fmt.Errorf("%w: code length must be positive", shared.ErrValidation)
		}
		if *in.NumberOfCodes < 1 {
			return Opening{}, fmt.Errorf("%w: number of codes must be at least 1", shared.ErrValidation)
		}
		op.CodeLength = *in.CodeLength
		op.NumberOfCodes = *in.NumberOfCodes
	case in.Width != nil && in.Height != nil:
		d, err := DeriveFromMeasurement(*in.Width, *in.Height, bladeWidthCm)
		if err != nil {
			return Opening{}, err
		}
		op.CodeLength = d.CodeLength
		op.NumberOfCodes = d.NumberOfCodes
	default:
		return Opening{}, fmt.Errorf("%w: opening requires width/height or code length/count", shared.ErrValidation)
	}

	if op.Height > 0 {
		op.ChannelLength = (op.Height + channelMarginCm) * 2 / 100
	}
	return op, nil
}
