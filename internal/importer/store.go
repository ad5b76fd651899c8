package importer

import (
	"context"

	"pty_logistics/internal/models"
)

// InsertOutcome is the three-way result of an insert attempt. A unique-index
// collision is an expected, recoverable outcome, not an exception.
type InsertOutcome int

const (
	InsertCreated InsertOutcome = iota
	InsertConflict
	InsertFailed
)

// RouteStore is the slice of persistence the import pipeline needs.
// FindByIdentity returns (nil, nil) when no route matches the filter.
// Insert reports InsertConflict together with the underlying duplicate-key
// error, and InsertFailed with any other store error.
type RouteStore interface {
	FindByIdentity(ctx context.Context, key IdentityKey) (*models.TruckRoute, error)
	Insert(ctx context.Context, route *models.TruckRoute) (InsertOutcome, error)
	UpdatePrice(ctx context.Context, id uint, price float64) error
}
