package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pty_logistics/internal/models"
)

// memStore is an in-memory RouteStore that enforces identity uniqueness
// under a mutex, the same way the compound unique index does.
type memStore struct {
	mu      sync.Mutex
	routes  map[IdentityKey]*models.TruckRoute
	nextID  uint
	findErr error
}

func newMemStore() *memStore {
	return &memStore{routes: map[IdentityKey]*models.TruckRoute{}}
}

func keyOf(r *models.TruckRoute) IdentityKey {
	return IdentityKey{
		Name:          r.Name,
		Origin:        r.Origin,
		Destination:   r.Destination,
		ContainerType: r.ContainerType,
		RouteType:     r.RouteType,
		Status:        r.Status,
		Client:        r.Client,
		RouteArea:     r.RouteArea,
		ContainerSize: r.ContainerSize,
	}
}

func (s *memStore) FindByIdentity(ctx context.Context, key IdentityKey) (*models.TruckRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if r, ok := s.routes[key]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) Insert(ctx context.Context, route *models.TruckRoute) (InsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyOf(route)
	if _, ok := s.routes[k]; ok {
		return InsertConflict, errors.New(`duplicate key value violates unique constraint "idx_truck_route_identity"`)
	}
	s.nextID++
	route.ID = s.nextID
	cp := *route
	s.routes[k] = &cp
	return InsertCreated, nil
}

func (s *memStore) UpdatePrice(ctx context.Context, id uint, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.routes {
		if r.ID == id {
			r.Price = price
			return nil
		}
	}
	return fmt.Errorf("route %d not found", id)
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.routes)
}

func (s *memStore) priceOf(key IdentityKey) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.routes[key]; ok {
		return r.Price
	}
	return 0
}

func validRow(origin, dest string, price interface{}) RawRoute {
	return RawRoute{
		Origin:        origin,
		Destination:   dest,
		ContainerType: "dry",
		RouteType:     "SINGLE",
		Status:        "full",
		Client:        "acme",
		RouteArea:     "pacific",
		Price:         price,
	}
}

func TestImportCreatesRoutes(t *testing.T) {
	store := newMemStore()
	im := New(store)

	rows := []RawRoute{
		validRow("psa", "blb", 150.0),
		validRow("psa", "colon", 200.0),
		validRow("blb", "david", "250"),
	}
	res, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Success)
	assert.Equal(t, 0, res.Duplicates)
	assert.Equal(t, 0, res.Errors)
	assert.Empty(t, res.ErrorsList)
	assert.Equal(t, 3, store.count())
}

func TestReimportReportsDuplicates(t *testing.T) {
	store := newMemStore()
	im := New(store)
	rows := []RawRoute{
		validRow("psa", "blb", 150.0),
		validRow("psa", "colon", 200.0),
	}

	_, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)

	res, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, 2, res.Duplicates)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 2, store.count())
}

func TestOverwriteUpdatesPrice(t *testing.T) {
	store := newMemStore()
	im := New(store)

	_, err := im.ImportRoutes(context.Background(), []RawRoute{validRow("psa", "blb", 150.0)}, false)
	require.NoError(t, err)

	res, err := im.ImportRoutes(context.Background(), []RawRoute{validRow("psa", "blb", 175.0)}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 0, res.Duplicates)
	assert.Equal(t, 1, store.count())

	key := NormalizeRoute(validRow("psa", "blb", 0)).Identity()
	assert.Equal(t, 175.0, store.priceOf(key))
}

func TestInvalidRowsDoNotAbortBatch(t *testing.T) {
	store := newMemStore()
	im := New(store)

	rows := []RawRoute{
		{Origin: "psa", Destination: "blb", Price: 100.0}, // missing most identity fields
		validRow("psa", "colon", 200.0),
		validRow("blb", "david", 250.0),
	}
	res, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.ErrorsList, 1)
	assert.Contains(t, res.ErrorsList[0], "row 1")
	assert.Contains(t, res.ErrorsList[0], "missing required fields")
	assert.Contains(t, res.ErrorsList[0], "container_type")
	assert.Equal(t, 2, store.count())
}

func TestUnparsablePriceIsRejected(t *testing.T) {
	store := newMemStore()
	im := New(store)

	res, err := im.ImportRoutes(context.Background(), []RawRoute{validRow("psa", "blb", "n/a")}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.ErrorsList, 1)
	assert.Contains(t, res.ErrorsList[0], "price must be a positive number")
	assert.Equal(t, 0, store.count())
}

func TestEmptyInputIsRejected(t *testing.T) {
	im := New(newMemStore())

	_, err := im.ImportRoutes(context.Background(), nil, false)
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = im.ImportRoutes(context.Background(), []RawRoute{}, false)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestErrorListIsCappedButCounterIsNot(t *testing.T) {
	im := New(newMemStore())

	rows := make([]RawRoute, 60)
	for i := range rows {
		rows[i] = RawRoute{Origin: "psa", Destination: "blb"}
	}
	res, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)

	assert.Equal(t, 60, res.Errors)
	assert.Len(t, res.ErrorsList, 50)
}

func TestSmallBatchesCoverAllRows(t *testing.T) {
	store := newMemStore()
	im := New(store)
	im.BatchSize = 2

	rows := []RawRoute{
		validRow("a", "b", 1.0),
		validRow("a", "c", 1.0),
		validRow("a", "d", 1.0),
		validRow("a", "e", 1.0),
		validRow("a", "f", 1.0),
	}
	res, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Success)
	assert.Equal(t, 5, store.count())
}

func TestStoreLookupErrorBecomesRowError(t *testing.T) {
	store := newMemStore()
	store.findErr = errors.New("connection reset")
	im := New(store)

	res, err := im.ImportRoutes(context.Background(), []RawRoute{validRow("psa", "blb", 150.0)}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Errors)
	assert.Contains(t, res.ErrorsList[0], "connection reset")
}

// stalledStore wedges lookups for one identity until the row context is
// cancelled, simulating a store call that outlives the per-row deadline.
type stalledStore struct {
	*memStore
	stall IdentityKey
}

func (s *stalledStore) FindByIdentity(ctx context.Context, key IdentityKey) (*models.TruckRoute, error) {
	if key == s.stall {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.memStore.FindByIdentity(ctx, key)
}

func TestRowTimeoutFoldsIntoRowError(t *testing.T) {
	store := &stalledStore{
		memStore: newMemStore(),
		stall:    NormalizeRoute(validRow("psa", "blb", 0)).Identity(),
	}
	im := New(store)
	im.RowTimeout = 20 * time.Millisecond

	rows := []RawRoute{
		validRow("psa", "blb", 150.0),
		validRow("psa", "colon", 200.0),
	}
	res, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 0, res.Duplicates)
	assert.Equal(t, 1, res.Errors)
	require.Len(t, res.ErrorsList, 1)
	assert.Contains(t, res.ErrorsList[0], "row 1")
	assert.Contains(t, res.ErrorsList[0], context.DeadlineExceeded.Error())
	assert.Equal(t, 1, store.count())
}

// raceStore holds the first two identity lookups at a barrier so both rows
// observe an empty store before either insert runs, forcing the
// unique-constraint race.
type raceStore struct {
	*memStore
	gateMu  sync.Mutex
	lookups int
	gate    chan struct{}
}

func newRaceStore() *raceStore {
	return &raceStore{memStore: newMemStore(), gate: make(chan struct{})}
}

func (s *raceStore) FindByIdentity(ctx context.Context, key IdentityKey) (*models.TruckRoute, error) {
	s.gateMu.Lock()
	if s.lookups < 2 {
		s.lookups++
		n := s.lookups
		s.gateMu.Unlock()
		if n == 2 {
			close(s.gate)
		}
		<-s.gate
	} else {
		s.gateMu.Unlock()
	}
	return s.memStore.FindByIdentity(ctx, key)
}

func TestIdenticalRowsInOneBatchResolveRace(t *testing.T) {
	store := newRaceStore()
	im := New(store)

	rows := []RawRoute{
		validRow("psa", "blb", 150.0),
		validRow("psa", "blb", 150.0),
	}
	res, err := im.ImportRoutes(context.Background(), rows, false)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 1, store.count())
}

func TestIdenticalRowsInOneBatchOverwriteMode(t *testing.T) {
	store := newRaceStore()
	im := New(store)

	rows := []RawRoute{
		validRow("psa", "blb", 150.0),
		validRow("psa", "blb", 150.0),
	}
	res, err := im.ImportRoutes(context.Background(), rows, true)
	require.NoError(t, err)

	// One row wins the insert, the loser re-resolves into an update.
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 0, res.Duplicates)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 1, store.count())
}

// vanishingStore reports a conflict whose counterpart can never be found,
// the inconsistent state the reconciler must surface as a real error.
type vanishingStore struct {
	*memStore
}

func (s *vanishingStore) FindByIdentity(ctx context.Context, key IdentityKey) (*models.TruckRoute, error) {
	return nil, nil
}

func (s *vanishingStore) Insert(ctx context.Context, route *models.TruckRoute) (InsertOutcome, error) {
	return InsertConflict, errors.New(`duplicate key value violates unique constraint "idx_truck_route_identity"`)
}

func TestConflictWithVanishedWinnerIsAnError(t *testing.T) {
	im := New(&vanishingStore{memStore: newMemStore()})

	res, err := im.ImportRoutes(context.Background(), []RawRoute{validRow("psa", "blb", 150.0)}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Success)
	assert.Equal(t, 0, res.Duplicates)
	assert.Equal(t, 1, res.Errors)
	assert.Contains(t, res.ErrorsList[0], "duplicate key value")
}
