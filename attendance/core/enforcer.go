package core

import (
	"context"
	"fmt"
	"time"

	"rakshak.com/rakshak/attendance/model"
)

// Policy selects which reconciliation variant the enforcer runs. The
// historical backend carried one route handler per combination; here it
// is a single engine with two switches.
type Policy struct {
	// CrossAmbulanceAutoClose closes a stale open shift when the
	// employee punches on another ambulance. When disabled the
	// submission is rejected with a ConflictError instead.
	CrossAmbulanceAutoClose bool `yaml:"crossAmbulanceAutoClose"`

	// SameCategoryAutoClose additionally closes the latest open shift
	// held on the same ambulance by a different employee of the same
	// category (a relief crew member taking over the seat).
	SameCategoryAutoClose bool `yaml:"sameCategoryAutoClose"`
}

type SubmitRequest struct {
	EmployeeID     int64
	AmbulanceID    *int64
	ShiftType      string
	Status         model.PunchStatus
	PunchTime      model.Timestamp
	PunchLocation  string
	Date           string
	DeviceMode     string
	ImageCapture   string
	ResponseStatus model.ResponseStatus
}

// PunchRecord is a persisted event denormalized for display.
type PunchRecord struct {
	model.PunchEvent
	EmployeeName     string `json:"employeeName"`
	EmployeeSystemID string `json:"employeeSystemId"`
	AmbulanceNumber  string `json:"ambulanceNumber"`
}

type SubmitResult struct {
	Message    string
	Created    *model.PunchEvent
	AutoClosed *model.PunchEvent
	Records    []PunchRecord
}

// Enforcer maintains the single-active-shift invariant: an employee
// holds at most one open manual punch-in at any time, across all
// ambulances. Each submission writes one or two rows (the manual punch
// plus at most one synthesized auto punch-out) in one transaction.
//
// Serialization is per submitting employee. A same-category peer close
// runs under the submitter's lock, not the peer's, so a simultaneous
// submission by the displaced peer can interleave with the
// displacement; the duplicate-synthesis guard in synthesize keeps that
// race from producing a second auto punch-out for the same shift.
type Enforcer struct {
	Policy Policy

	// Now is the clock used for defaulted punch times and auto-close
	// back-dating. Overridable in tests.
	Now func() time.Time

	locks keyedMutex
}

func NewEnforcer(policy Policy) *Enforcer {
	return &Enforcer{Policy: policy, Now: time.Now}
}

func (e *Enforcer) SubmitPunch(ctx context.Context, store Store, req SubmitRequest) (*SubmitResult, error) {
	if req.EmployeeID == 0 {
		return nil, &ValidationError{Field: "employeeId"}
	}
	if req.Status != model.StatusPunchIn && req.Status != model.StatusPunchOut {
		return nil, &ValidationError{Field: "status"}
	}
	if req.Date == "" {
		return nil, &ValidationError{Field: "date"}
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, &ValidationError{Field: "date"}
	}

	emp, err := store.Employee(ctx, req.EmployeeID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if emp == nil {
		return nil, &NotFoundError{Resource: "employee"}
	}

	// The open-shift lookup and the writes below must not interleave
	// with another submission for the same employee.
	unlock := e.locks.Lock(req.EmployeeID)
	defer unlock()

	now := e.Now()

	open, err := store.OpenShift(ctx, req.EmployeeID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	var autoClosed *model.PunchEvent
	if open != nil {
		switch {
		case req.Status == model.StatusPunchIn:
			// Re-punching without closing out, or switching ambulance:
			// the stale shift is closed either way.
			if !e.Policy.CrossAmbulanceAutoClose && !open.OnAmbulance(req.AmbulanceID) {
				return nil, &ConflictError{Reason: "employee cannot mark attendance for multiple ambulances on the same day"}
			}
			autoClosed, err = e.synthesize(ctx, store, open, now)

		case !open.OnAmbulance(req.AmbulanceID):
			// Punching out from ambulance B while still open on A. The
			// explicit punch-out persists as manual regardless.
			if !e.Policy.CrossAmbulanceAutoClose {
				return nil, &ConflictError{Reason: "employee cannot mark attendance for multiple ambulances on the same day"}
			}
			autoClosed, err = e.synthesize(ctx, store, open, now)
		}
		if err != nil {
			return nil, err
		}
	}

	// Seat handover: a punch-in may displace a colleague of the same
	// category who never punched out of this ambulance.
	if autoClosed == nil && req.Status == model.StatusPunchIn &&
		e.Policy.SameCategoryAutoClose && req.AmbulanceID != nil && emp.CategoryID != nil {
		peer, err := store.OpenPeerShift(ctx, *req.AmbulanceID, req.EmployeeID, *emp.CategoryID)
		if err != nil {
			return nil, &PersistenceError{Err: err}
		}
		if peer != nil {
			autoClosed, err = e.synthesize(ctx, store, peer, now)
			if err != nil {
				return nil, err
			}
		}
	}

	punchTime := req.PunchTime
	if punchTime.IsZero() {
		punchTime = model.NewTimestamp(now)
	}
	responseStatus := req.ResponseStatus
	if responseStatus == "" {
		responseStatus = model.ResponseSuccess
	}

	created := &model.PunchEvent{
		EmployeeID:     req.EmployeeID,
		AmbulanceID:    req.AmbulanceID,
		ShiftType:      req.ShiftType,
		Status:         req.Status,
		PunchOutType:   model.PunchOutManual,
		PunchTime:      punchTime,
		PunchLocation:  req.PunchLocation,
		Date:           req.Date,
		DeviceMode:     req.DeviceMode,
		ImageCapture:   req.ImageCapture,
		ResponseStatus: responseStatus,
	}

	events := []*model.PunchEvent{}
	if autoClosed != nil {
		events = append(events, autoClosed)
	}
	events = append(events, created)

	if err := store.Append(ctx, events...); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	result := &SubmitResult{
		Created:    created,
		AutoClosed: autoClosed,
		Message:    fmt.Sprintf("%s has successfully recorded manual attendance.", emp.Name),
	}
	if autoClosed != nil {
		closedName := emp.Name
		if autoClosed.EmployeeID != emp.ID {
			closedName = "Another employee"
			if closedEmp, err := store.Employee(ctx, autoClosed.EmployeeID); err == nil && closedEmp != nil {
				closedName = closedEmp.Name
			}
		}
		result.Message = fmt.Sprintf("%s has successfully recorded manual attendance, and %s has been automatically punched out.", emp.Name, closedName)
	}

	result.Records, err = e.denormalize(ctx, store, emp, result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// synthesize builds the auto punch-out closing the given open shift,
// back-dated one minute so it strictly precedes the new punch even when
// both land in the same second. Returns nil when an auto close already
// exists for the shift (idempotence under concurrent submissions).
func (e *Enforcer) synthesize(ctx context.Context, store Store, open *model.PunchEvent, now time.Time) (*model.PunchEvent, error) {
	exists, err := store.HasAutoCloseSince(ctx, open)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if exists {
		return nil, nil
	}
	return &model.PunchEvent{
		EmployeeID:     open.EmployeeID,
		AmbulanceID:    open.AmbulanceID,
		ShiftType:      open.ShiftType,
		Status:         model.StatusPunchOut,
		PunchOutType:   model.PunchOutAuto,
		PunchTime:      model.NewTimestamp(now.Add(-time.Minute)),
		PunchLocation:  open.PunchLocation,
		Date:           open.Date,
		DeviceMode:     open.DeviceMode,
		ImageCapture:   open.ImageCapture,
		ResponseStatus: model.ResponseSuccess,
	}, nil
}

// denormalize attaches employee and ambulance display fields to the
// affected records, created first.
func (e *Enforcer) denormalize(ctx context.Context, store Store, emp *model.Employee, res *SubmitResult) ([]PunchRecord, error) {
	numbers := map[int64]string{}
	number := func(id *int64) string {
		if id == nil {
			return ""
		}
		if n, ok := numbers[*id]; ok {
			return n
		}
		n := ""
		if amb, err := store.Ambulance(ctx, *id); err == nil && amb != nil {
			n = amb.AmbulanceNumber
		}
		numbers[*id] = n
		return n
	}

	records := []PunchRecord{{
		PunchEvent:       *res.Created,
		EmployeeName:     emp.Name,
		EmployeeSystemID: emp.EmployeeSystemID,
		AmbulanceNumber:  number(res.Created.AmbulanceID),
	}}

	if res.AutoClosed != nil {
		rec := PunchRecord{
			PunchEvent:      *res.AutoClosed,
			AmbulanceNumber: number(res.AutoClosed.AmbulanceID),
		}
		if res.AutoClosed.EmployeeID == emp.ID {
			rec.EmployeeName = emp.Name
			rec.EmployeeSystemID = emp.EmployeeSystemID
		} else if closedEmp, err := store.Employee(ctx, res.AutoClosed.EmployeeID); err == nil && closedEmp != nil {
			rec.EmployeeName = closedEmp.Name
			rec.EmployeeSystemID = closedEmp.EmployeeSystemID
		}
		records = append(records, rec)
	}
	return records, nil
}
