package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type outcomeKind int

const (
	rowCreated outcomeKind = iota
	rowUpdated
	rowDuplicate
	rowError
)

type rowOutcome struct {
	kind    outcomeKind
	message string
}

func errOutcome(idx int, msg string) rowOutcome {
	return rowOutcome{kind: rowError, message: fmt.Sprintf("row %d: %s", idx+1, msg)}
}

// reconcile runs the per-row state machine: normalize, validate, look up by
// identity, then create / overwrite / report duplicate. A panic inside a row
// is folded into a row error so sibling rows keep running.
func (im *Importer) reconcile(ctx context.Context, idx int, raw RawRoute, overwrite bool) (out rowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("row", idx+1).Errorf("route import row panicked: %v", r)
			out = errOutcome(idx, fmt.Sprintf("unexpected failure: %v", r))
		}
	}()

	if im.RowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, im.RowTimeout)
		defer cancel()
	}

	n := NormalizeRoute(raw)
	if missing := n.MissingFields(); len(missing) > 0 {
		return errOutcome(idx, "missing required fields: "+strings.Join(missing, ", "))
	}
	if n.Price <= 0 {
		return errOutcome(idx, "price must be a positive number")
	}

	key := n.Identity()
	existing, err := im.Store.FindByIdentity(ctx, key)
	if err != nil {
		return errOutcome(idx, err.Error())
	}
	if existing != nil {
		if !overwrite {
			return rowOutcome{kind: rowDuplicate}
		}
		if err := im.Store.UpdatePrice(ctx, existing.ID, n.Price); err != nil {
			return errOutcome(idx, err.Error())
		}
		return rowOutcome{kind: rowUpdated}
	}

	route := n.Model()
	outcome, insertErr := im.Store.Insert(ctx, &route)
	switch outcome {
	case InsertCreated:
		return rowOutcome{kind: rowCreated}
	case InsertFailed:
		return errOutcome(idx, insertErr.Error())
	}

	// Lost the insert race to a sibling row carrying the same identity key.
	// The winner's record must exist now, so re-query and re-decide.
	winner, err := im.Store.FindByIdentity(ctx, key)
	if err != nil {
		return errOutcome(idx, err.Error())
	}
	if winner == nil {
		// Constraint fired but the conflicting row is gone: surface the
		// original violation instead of guessing.
		msg := "duplicate key violation"
		if insertErr != nil {
			msg = insertErr.Error()
		}
		return errOutcome(idx, msg)
	}
	if overwrite {
		if err := im.Store.UpdatePrice(ctx, winner.ID, n.Price); err != nil {
			return errOutcome(idx, err.Error())
		}
		return rowOutcome{kind: rowUpdated}
	}
	return rowOutcome{kind: rowDuplicate}
}
