package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"pty_logistics/internal/importer"
	"pty_logistics/internal/models"
)

// TruckRouteRepository implements importer.RouteStore on a gorm handle.
// Constructed once at wiring time and passed by reference, so the engine can
// run against any *gorm.DB, mocked connections included.
type TruckRouteRepository struct {
	db *gorm.DB
}

func NewTruckRouteRepository(db *gorm.DB) *TruckRouteRepository {
	return &TruckRouteRepository{db: db}
}

// FindByIdentity runs the exact-match existence query over the full identity
// filter. A miss is (nil, nil), not an error.
func (r *TruckRouteRepository) FindByIdentity(ctx context.Context, key importer.IdentityKey) (*models.TruckRoute, error) {
	filter := map[string]interface{}{
		"name":           key.Name,
		"origin":         key.Origin,
		"destination":    key.Destination,
		"container_type": key.ContainerType,
		"route_type":     key.RouteType,
		"status":         key.Status,
		"client":         key.Client,
		"route_area":     key.RouteArea,
		"container_size": key.ContainerSize,
	}

	var route models.TruckRoute
	err := r.db.WithContext(ctx).Where(filter).First(&route).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find route by identity")
	}
	return &route, nil
}

// Insert attempts the create and classifies the result three ways: created,
// identity conflict (the compound unique index fired) or plain failure.
// The conflict branch returns the driver error so callers can surface it when
// the follow-up re-query comes back empty.
func (r *TruckRouteRepository) Insert(ctx context.Context, route *models.TruckRoute) (importer.InsertOutcome, error) {
	if err := r.db.WithContext(ctx).Create(route).Error; err != nil {
		if IsDuplicateKey(err) {
			return importer.InsertConflict, err
		}
		return importer.InsertFailed, pkgerrors.Wrap(err, "insert route")
	}
	return importer.InsertCreated, nil
}

// UpdatePrice overwrites the one mutable field of an existing route.
func (r *TruckRouteRepository) UpdatePrice(ctx context.Context, id uint, price float64) error {
	err := r.db.WithContext(ctx).
		Model(&models.TruckRoute{}).
		Where("id = ?", id).
		Update("price", price).Error
	if err != nil {
		return pkgerrors.Wrap(err, "update route price")
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique-constraint violation,
// whichever postgres driver raised it.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
