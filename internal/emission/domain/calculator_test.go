package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
)

func TestCalculateMultipliesValueByRate(t *testing.T) {
	factor := &factordomain.EmissionFactor{CO2ePerUnit: 2.71}

	got, err := Calculate(1000, factor)
	require.NoError(t, err)
	require.Equal(t, 2710.0, got)

	got, err = Calculate(0, factor)
	require.NoError(t, err)
	require.Equal(t, 0.0, got)
}

func TestCalculateNoRounding(t *testing.T) {
	factor := &factordomain.EmissionFactor{CO2ePerUnit: 0.333}

	got, err := Calculate(3, factor)
	require.NoError(t, err)
	require.InDelta(t, 0.999, got, 1e-12)
}

func TestCalculateRejectsNegativeValue(t *testing.T) {
	factor := &factordomain.EmissionFactor{CO2ePerUnit: 2.71}

	_, err := Calculate(-1, factor)
	require.ErrorIs(t, err, ErrInvalidActivityValue)
}

func TestCalculateRejectsMissingFactor(t *testing.T) {
	_, err := Calculate(10, nil)
	require.ErrorIs(t, err, ErrMissingFactor)
}

func TestCalculateRejectsNegativeRate(t *testing.T) {
	factor := &factordomain.EmissionFactor{CO2ePerUnit: -0.5}

	_, err := Calculate(10, factor)
	require.ErrorIs(t, err, ErrInvalidFactorRate)
}
