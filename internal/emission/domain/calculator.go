package domain

import (
	"errors"

	factordomain "github.com/verdantio/carbonledger/internal/factor/domain"
)

var (
	ErrInvalidActivityValue = errors.New("invalid_activity_value")
	ErrMissingFactor        = errors.New("missing_factor")
	ErrInvalidFactorRate    = errors.New("invalid_factor_rate")
)

// Calculate multiplies an activity quantity by the factor's rate.
// No rounding happens here; rounding is applied only when formatting
// responses, never on stored values.
func Calculate(activityValue float64, factor *factordomain.EmissionFactor) (float64, error) {
	if activityValue < 0 {
		return 0, ErrInvalidActivityValue
	}
	if factor == nil {
		return 0, ErrMissingFactor
	}
	if factor.CO2ePerUnit < 0 {
		return 0, ErrInvalidFactorRate
	}
	return activityValue * factor.CO2ePerUnit, nil
}
