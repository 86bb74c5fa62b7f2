package core

import (
	"context"

	"rakshak.com/rakshak/attendance/model"
)

// Store is the data access surface the reconciliation engine needs.
// The production implementation is GormStore; tests use an in-memory
// store. The attendance log behind it is append-only: Append is the
// only write and must apply all events atomically.
type Store interface {
	// Employee returns the employee, or nil when it does not exist or
	// is soft-deleted.
	Employee(ctx context.Context, id int64) (*model.Employee, error)

	// Ambulance returns the ambulance, or nil when unknown.
	Ambulance(ctx context.Context, id int64) (*model.Ambulance, error)

	// OpenShift returns the employee's latest open manual punch-in
	// across all ambulances and dates, or nil. A punch-in is open when
	// no punch-out (manual or auto) with a later punch time exists for
	// the employee. Equal punch times break by insertion order: the
	// higher row id wins.
	OpenShift(ctx context.Context, employeeID int64) (*model.PunchEvent, error)

	// OpenPeerShift returns the latest open manual punch-in on the
	// given ambulance held by a different employee of the given
	// category, or nil.
	OpenPeerShift(ctx context.Context, ambulanceID int64, excludeEmployeeID int64, categoryID int64) (*model.PunchEvent, error)

	// HasAutoCloseSince reports whether an auto punch-out already
	// exists for the shift's employee/ambulance/date at or after the
	// shift's punch-in time. Guards against duplicate synthesis.
	HasAutoCloseSince(ctx context.Context, shift *model.PunchEvent) (bool, error)

	// Append writes the events in order inside one transaction.
	Append(ctx context.Context, events ...*model.PunchEvent) error
}
