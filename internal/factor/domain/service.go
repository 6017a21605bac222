package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Resolve(ctx context.Context, req ResolveRequest) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type ResolveRequest struct {
	ActivityName string `form:"activity_name"`
	Scope        int    `form:"scope"`
	Date         string `form:"date"`
}

type CreateRequest struct {
	ActivityName string  `json:"activity_name"`
	Scope        int     `json:"scope"`
	CO2ePerUnit  float64 `json:"co2e_per_unit"`
	ActivityUnit string  `json:"activity_unit"`
	Source       string  `json:"source"`
	ValidFrom    string  `json:"valid_from"`
	ValidTo      *string `json:"valid_to,omitempty"`
}

type ListRequest struct {
	ActivityName string `form:"activity_name"`
	Scope        int    `form:"scope"`
}

type Response struct {
	ID           string    `json:"id"`
	ActivityName string    `json:"activity_name"`
	Scope        int       `json:"scope"`
	CO2ePerUnit  float64   `json:"co2e_per_unit"`
	ActivityUnit string    `json:"activity_unit"`
	Source       string    `json:"source"`
	ValidFrom    string    `json:"valid_from"`
	ValidTo      *string   `json:"valid_to"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	ErrNotFound            = errors.New("factor_not_found")
	ErrInvalidActivityName = errors.New("invalid_activity_name")
	ErrInvalidScope        = errors.New("invalid_scope")
	ErrInvalidDate         = errors.New("invalid_date")
	ErrInvalidRate         = errors.New("invalid_co2e_per_unit")
	ErrInvalidUnit         = errors.New("invalid_activity_unit")
	ErrInvalidValidity     = errors.New("invalid_validity_window")
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a wire date and normalizes it to UTC midnight.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// ValidScope reports whether the scope is one of the GHG Protocol scopes.
func ValidScope(scope int) bool {
	return scope >= 1 && scope <= 3
}
