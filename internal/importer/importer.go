package importer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBatchSize bounds how many store operations are in flight at
	// once. Batches run one after another; rows inside a batch run
	// concurrently.
	DefaultBatchSize = 100

	// maxReportedErrors caps errorsList in the response. The error counter
	// itself is never capped.
	maxReportedErrors = 50
)

// ErrNoRows rejects a call with a missing or empty row set before any row
// is processed.
var ErrNoRows = errors.New("no routes provided for import")

// Result is the per-call aggregate returned to the caller. Success counts
// both created and overwritten rows.
type Result struct {
	Success    int      `json:"success"`
	Duplicates int      `json:"duplicates"`
	Errors     int      `json:"errors"`
	ErrorsList []string `json:"errorsList"`
}

// Importer ingests spreadsheet rows into the truck-route catalog in
// fixed-size concurrent batches, reconciling each row against the compound
// identity key.
type Importer struct {
	Store RouteStore

	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int

	// RowTimeout, when positive, bounds each row's store operations.
	// Zero leaves rows without a deadline.
	RowTimeout time.Duration
}

func New(store RouteStore) *Importer {
	return &Importer{Store: store, BatchSize: DefaultBatchSize}
}

// ImportRoutes runs the whole pipeline: partition into batches, reconcile
// every row of a batch concurrently, then move to the next batch. A failing
// row never aborts its siblings or later batches; failures fold into the
// aggregate counts. Only an empty input is a call-level error.
func (im *Importer) ImportRoutes(ctx context.Context, rows []RawRoute, overwriteDuplicates bool) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	batchSize := im.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	res := &Result{ErrorsList: []string{}}
	var mu sync.Mutex

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, raw RawRoute) {
				defer wg.Done()
				out := im.reconcile(ctx, idx, raw, overwriteDuplicates)

				mu.Lock()
				defer mu.Unlock()
				switch out.kind {
				case rowCreated, rowUpdated:
					res.Success++
				case rowDuplicate:
					res.Duplicates++
				case rowError:
					res.Errors++
					if len(res.ErrorsList) < maxReportedErrors {
						res.ErrorsList = append(res.ErrorsList, out.message)
					}
				}
			}(i, rows[i])
		}
		wg.Wait()
	}

	logrus.WithFields(logrus.Fields{
		"rows":       len(rows),
		"success":    res.Success,
		"duplicates": res.Duplicates,
		"errors":     res.Errors,
		"overwrite":  overwriteDuplicates,
	}).Info("route import finished")

	return res, nil
}
