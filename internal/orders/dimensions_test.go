package orders

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abjour-erp/abjour-erp/internal/shared"
)

func TestDeriveFromMeasurement(t *testing.T) {
	d, err := DeriveFromMeasurement(103.5, 150, 5.8)
	require.NoError(t, err)
	require.InDelta(t, 1.00, d.CodeLength, 1e-9)
	require.Equal(t, 28, d.NumberOfCodes) // ceil(160 / 5.8)
	require.InDelta(t, 3.10, d.ChannelLength, 1e-9)
}

func TestDeriveFromMeasurementRoundsBladeCountUp(t *testing.T) {
	// 150 + 10 = 160 splits exactly into 32 blades of 5.0.
	d, err := DeriveFromMeasurement(100, 150, 5.0)
	require.NoError(t, err)
	require.Equal(t, 32, d.NumberOfCodes)

	// Any fractional remainder adds a whole blade.
	d, err = DeriveFromMeasurement(100, 150.5, 5.0)
	require.NoError(t, err)
	require.Equal(t, 33, d.NumberOfCodes)
}

func TestDeriveFromMeasurementRejectsNarrowOpening(t *testing.T) {
	_, err := DeriveFromMeasurement(3.5, 150, 5.8)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = DeriveFromMeasurement(2.0, 150, 5.8)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeriveFromMeasurementRejectsNonPositiveInputs(t *testing.T) {
	_, err := DeriveFromMeasurement(0, 150, 5.8)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = DeriveFromMeasurement(100, -1, 5.8)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = DeriveFromMeasurement(100, 150, 0)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestBuildOpeningDirectValuesWin(t *testing.T) {
	width, height := 103.5, 150.0
	codeLength, codes := 2.5, 40

	op, err := BuildOpening(OpeningInput{
		Width:         &width,
		Height:        &height,
		CodeLength:    &codeLength,
		NumberOfCodes: &codes,
	}, 5.8)
	require.NoError(t, err)
	require.Equal(t, 2.5, op.CodeLength)
	require.Equal(t, 40, op.NumberOfCodes)
	// Channel length still follows the measured height.
	require.InDelta(t, 3.10, op.ChannelLength, 1e-9)
}

func TestBuildOpeningDerivesFromMeasurement(t *testing.T) {
	width, height := 103.5, 150.0
	op, err := BuildOpening(OpeningInput{Width: &width, Height: &height}, 5.8)
	require.NoError(t, err)
	require.InDelta(t, 1.00, op.CodeLength, 1e-9)
	require.Equal(t, 28, op.NumberOfCodes)
}

func TestBuildOpeningRequiresOnePath(t *testing.T) {
	width := 103.5
	_, err := BuildOpening(OpeningInput{Width: &width}, 5.8)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = BuildOpening(OpeningInput{}, 5.8)
	require.ErrorIs(t, err, shared.ErrValidation)
}
