package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/utils"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newFixture(policy Policy) (*memStore, *Enforcer) {
	store := newMemStore()
	store.addEmployee(model.Employee{ID: 1, EmployeeSystemID: "EMP001", Name: "Ravi Kumar", CategoryID: utils.Ptr(int64(10))})
	store.addEmployee(model.Employee{ID: 2, EmployeeSystemID: "EMP002", Name: "Suresh Patil", CategoryID: utils.Ptr(int64(10))})
	store.addEmployee(model.Employee{ID: 3, EmployeeSystemID: "EMP003", Name: "Anita Desai", CategoryID: utils.Ptr(int64(20))})
	store.addAmbulance(model.Ambulance{ID: 100, AmbulanceNumber: "KA-01-100"})
	store.addAmbulance(model.Ambulance{ID: 200, AmbulanceNumber: "KA-01-200"})

	enf := NewEnforcer(policy)
	enf.Now = func() time.Time { return fixedNow }
	return store, enf
}

func punchIn(employeeID int64, ambulanceID int64, at time.Time) SubmitRequest {
	return SubmitRequest{
		EmployeeID:    employeeID,
		AmbulanceID:   utils.Ptr(ambulanceID),
		ShiftType:     "Day_Shift",
		Status:        model.StatusPunchIn,
		PunchTime:     model.NewTimestamp(at),
		PunchLocation: "Station 4",
		Date:          at.Format("2006-01-02"),
		DeviceMode:    "kiosk",
	}
}

func punchOut(employeeID int64, ambulanceID int64, at time.Time) SubmitRequest {
	req := punchIn(employeeID, ambulanceID, at)
	req.Status = model.StatusPunchOut
	return req
}

func TestSubmitPunchValidation(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})

	tests := []struct {
		name      string
		mutate    func(*SubmitRequest)
		wantField string
	}{
		{"missing employee", func(r *SubmitRequest) { r.EmployeeID = 0 }, "employeeId"},
		{"missing status", func(r *SubmitRequest) { r.Status = "" }, "status"},
		{"bogus status", func(r *SubmitRequest) { r.Status = "Present" }, "status"},
		{"missing date", func(r *SubmitRequest) { r.Date = "" }, "date"},
		{"malformed date", func(r *SubmitRequest) { r.Date = "10-03-2025" }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := punchIn(1, 100, fixedNow)
			tt.mutate(&req)

			_, err := enf.SubmitPunch(context.Background(), store, req)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Empty(t, store.events)
		})
	}
}

func TestSubmitPunchEmployeeNotFound(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})
	store.addEmployee(model.Employee{
		ID: 9, Name: "Gone", DeletedAt: gorm.DeletedAt{Time: fixedNow, Valid: true},
	})

	for _, id := range []int64{404, 9} {
		_, err := enf.SubmitPunch(context.Background(), store, punchIn(id, 100, fixedNow))

		var nerr *NotFoundError
		require.ErrorAs(t, err, &nerr)
		assert.Empty(t, store.events)
	}
}

func TestSubmitPunchFirstPunchIn(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})

	res, err := enf.SubmitPunch(context.Background(), store, punchIn(1, 100, fixedNow))
	require.NoError(t, err)

	assert.Nil(t, res.AutoClosed)
	assert.Equal(t, model.StatusPunchIn, res.Created.Status)
	assert.Equal(t, model.PunchOutManual, res.Created.PunchOutType)
	assert.Equal(t, "Ravi Kumar has successfully recorded manual attendance.", res.Message)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "Ravi Kumar", res.Records[0].EmployeeName)
	assert.Equal(t, "KA-01-100", res.Records[0].AmbulanceNumber)
	assert.Len(t, store.events, 1)
}

func TestSubmitPunchDefaultsPunchTime(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})

	req := punchIn(1, 100, fixedNow)
	req.PunchTime = model.Timestamp{}

	res, err := enf.SubmitPunch(context.Background(), store, req)
	require.NoError(t, err)
	assert.Equal(t, model.NewTimestamp(fixedNow), res.Created.PunchTime)
}

func TestAutoCloseOnAmbulanceSwitch(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})
	ctx := context.Background()

	morning := fixedNow.Add(-time.Hour)
	_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, morning))
	require.NoError(t, err)

	res, err := enf.SubmitPunch(ctx, store, punchIn(1, 200, fixedNow))
	require.NoError(t, err)

	require.NotNil(t, res.AutoClosed)
	closed := res.AutoClosed
	assert.Equal(t, model.StatusPunchOut, closed.Status)
	assert.Equal(t, model.PunchOutAuto, closed.PunchOutType)
	assert.Equal(t, model.NewTimestamp(fixedNow.Add(-time.Minute)), closed.PunchTime)
	assert.Equal(t, int64(100), *closed.AmbulanceID)
	assert.Equal(t, "Day_Shift", closed.ShiftType)
	assert.Equal(t, "Station 4", closed.PunchLocation)
	assert.Equal(t, morning.Format("2006-01-02"), closed.Date)

	// created first, auto-closed second
	require.Len(t, res.Records, 2)
	assert.Equal(t, model.StatusPunchIn, res.Records[0].Status)
	assert.Equal(t, "KA-01-100", res.Records[1].AmbulanceNumber)
	assert.Contains(t, res.Message, "automatically punched out")

	assert.Equal(t, 1, store.openShiftCount(1))
}

func TestAutoCloseOnRePunchInSameAmbulance(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})
	ctx := context.Background()

	_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-time.Hour)))
	require.NoError(t, err)

	res, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow))
	require.NoError(t, err)

	require.NotNil(t, res.AutoClosed)
	assert.Equal(t, 1, store.openShiftCount(1))
}

func TestAutoCloseIdempotent(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})
	ctx := context.Background()

	// An auto punch-out already landed in the same second as the open
	// punch-in but with a lower id: the shift still reads as open, yet
	// the guard must not synthesize a second close.
	openAt := model.NewTimestamp(fixedNow.Add(-time.Hour))
	require.NoError(t, store.Append(ctx, &model.PunchEvent{
		EmployeeID: 1, AmbulanceID: utils.Ptr(int64(100)),
		Status: model.StatusPunchOut, PunchOutType: model.PunchOutAuto,
		PunchTime: openAt, Date: fixedNow.Format("2006-01-02"),
	}))
	require.NoError(t, store.Append(ctx, &model.PunchEvent{
		EmployeeID: 1, AmbulanceID: utils.Ptr(int64(100)),
		Status: model.StatusPunchIn, PunchOutType: model.PunchOutManual,
		PunchTime: openAt, Date: fixedNow.Format("2006-01-02"),
	}))

	res, err := enf.SubmitPunch(ctx, store, punchIn(1, 200, fixedNow))
	require.NoError(t, err)

	assert.Nil(t, res.AutoClosed)
	autoOuts := 0
	for _, e := range store.events {
		if e.PunchOutType == model.PunchOutAuto {
			autoOuts++
		}
	}
	assert.Equal(t, 1, autoOuts)
}

func TestCrossAmbulancePunchOut(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})
	ctx := context.Background()

	_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-8*time.Hour)))
	require.NoError(t, err)

	res, err := enf.SubmitPunch(ctx, store, punchOut(1, 200, fixedNow))
	require.NoError(t, err)

	require.NotNil(t, res.AutoClosed)
	assert.Equal(t, int64(100), *res.AutoClosed.AmbulanceID)
	// the explicit punch-out always persists as manual
	assert.Equal(t, model.StatusPunchOut, res.Created.Status)
	assert.Equal(t, model.PunchOutManual, res.Created.PunchOutType)
	assert.Equal(t, 0, store.openShiftCount(1))
}

func TestSameAmbulancePunchOut(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})
	ctx := context.Background()

	_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-8*time.Hour)))
	require.NoError(t, err)

	res, err := enf.SubmitPunch(ctx, store, punchOut(1, 100, fixedNow))
	require.NoError(t, err)

	assert.Nil(t, res.AutoClosed)
	assert.Equal(t, 0, store.openShiftCount(1))
}

func TestCrossAmbulanceRejectedWhenPolicyDisabled(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: false})
	ctx := context.Background()

	_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-time.Hour)))
	require.NoError(t, err)
	written := len(store.events)

	_, err = enf.SubmitPunch(ctx, store, punchIn(1, 200, fixedNow))

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Len(t, store.events, written)
}

func TestSameCategoryAutoClose(t *testing.T) {
	ctx := context.Background()

	t.Run("same category peer is closed", func(t *testing.T) {
		store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true, SameCategoryAutoClose: true})

		_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-time.Hour)))
		require.NoError(t, err)

		// employee 2 shares category 10 with employee 1
		res, err := enf.SubmitPunch(ctx, store, punchIn(2, 100, fixedNow))
		require.NoError(t, err)

		require.NotNil(t, res.AutoClosed)
		assert.Equal(t, int64(1), res.AutoClosed.EmployeeID)
		assert.Contains(t, res.Message, "Suresh Patil has successfully recorded manual attendance")
		assert.Contains(t, res.Message, "Ravi Kumar has been automatically punched out")
		assert.Equal(t, 0, store.openShiftCount(1))
		assert.Equal(t, 1, store.openShiftCount(2))
	})

	t.Run("different category peer is untouched", func(t *testing.T) {
		store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true, SameCategoryAutoClose: true})

		_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-time.Hour)))
		require.NoError(t, err)

		// employee 3 is category 20
		res, err := enf.SubmitPunch(ctx, store, punchIn(3, 100, fixedNow))
		require.NoError(t, err)

		assert.Nil(t, res.AutoClosed)
		assert.Equal(t, 1, store.openShiftCount(1))
	})

	t.Run("disabled policy leaves peer open", func(t *testing.T) {
		store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})

		_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-time.Hour)))
		require.NoError(t, err)

		res, err := enf.SubmitPunch(ctx, store, punchIn(2, 100, fixedNow))
		require.NoError(t, err)

		assert.Nil(t, res.AutoClosed)
		assert.Equal(t, 1, store.openShiftCount(1))
	})
}

func TestSubmitPunchAtomicOnStorageFailure(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})
	ctx := context.Background()

	_, err := enf.SubmitPunch(ctx, store, punchIn(1, 100, fixedNow.Add(-time.Hour)))
	require.NoError(t, err)
	written := len(store.events)

	store.failAppend = true
	_, err = enf.SubmitPunch(ctx, store, punchIn(1, 200, fixedNow))

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	// neither the manual punch nor its auto-close survives
	assert.Len(t, store.events, written)
}

func TestConcurrentPunchInsKeepOneOpenShift(t *testing.T) {
	store, enf := newFixture(Policy{CrossAmbulanceAutoClose: true})

	// a stepping clock so successive auto-closes land after the punch-in
	// they close
	var clockMu sync.Mutex
	current := fixedNow
	enf.Now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		current = current.Add(2 * time.Minute)
		return current
	}

	const workers = 25
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := punchIn(1, 100, time.Time{})
			req.PunchTime = model.Timestamp{} // take the enforcer clock
			req.Date = fixedNow.Format("2006-01-02")
			req.PunchLocation = fmt.Sprintf("bay %d", i)
			_, errs[i] = enf.SubmitPunch(context.Background(), store, req)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.openShiftCount(1),
		"serialized submissions must never leave two open shifts")
}

func TestErrorTaxonomy(t *testing.T) {
	assert.EqualError(t, &ValidationError{Field: "date"}, "date is required")
	assert.EqualError(t, &NotFoundError{Resource: "employee"}, "employee not found")
	assert.EqualError(t, &ConflictError{Reason: "nope"}, "nope")

	inner := errors.New("disk full")
	perr := &PersistenceError{Err: inner}
	assert.ErrorIs(t, perr, inner)
}
