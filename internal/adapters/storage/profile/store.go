package profile

import (
	"context"

	domain "idcard/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Record, error)
	Save(ctx context.Context, value domain.Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Record, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	FilterOptions(ctx context.Context) (Options, error)
}

// ListFilter carries filtering parameters for List/Count operations.
type ListFilter struct {
	Limit       int
	Offset      int
	Search      string // matches name, phone or parish
	Deanery     string
	Parish      string
	Level       string
	Designation string
	Sort        string
	Dir         string
}

// Options holds the distinct filter values present in stored profiles,
// used to populate the manage screen's dropdowns.
type Options struct {
	Deaneries    []string `json:"deaneries"`
	Parishes     []string `json:"parishes"`
	Levels       []string `json:"levels"`
	Designations []string `json:"designations"`
}
