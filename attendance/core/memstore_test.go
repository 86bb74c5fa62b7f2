package core

import (
	"context"
	"errors"
	"sync"

	"rakshak.com/rakshak/attendance/model"
)

// memStore mirrors the GormStore query semantics in memory. Safe for
// concurrent use so the interleaving test can hammer it.
type memStore struct {
	mu         sync.Mutex
	employees  map[int64]*model.Employee
	ambulances map[int64]*model.Ambulance
	events     []*model.PunchEvent
	nextID     int64
	failAppend bool
}

func newMemStore() *memStore {
	return &memStore{
		employees:  map[int64]*model.Employee{},
		ambulances: map[int64]*model.Ambulance{},
	}
}

func (s *memStore) addEmployee(emp model.Employee) {
	s.employees[emp.ID] = &emp
}

func (s *memStore) addAmbulance(amb model.Ambulance) {
	s.ambulances[amb.ID] = &amb
}

func (s *memStore) Employee(ctx context.Context, id int64) (*model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok || emp.DeletedAt.Valid {
		return nil, nil
	}
	cp := *emp
	return &cp, nil
}

func (s *memStore) Ambulance(ctx context.Context, id int64) (*model.Ambulance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	amb, ok := s.ambulances[id]
	if !ok {
		return nil, nil
	}
	cp := *amb
	return &cp, nil
}

func (s *memStore) OpenShift(ctx context.Context, employeeID int64) (*model.PunchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openShiftLocked(func(e *model.PunchEvent) bool {
		return e.EmployeeID == employeeID
	}), nil
}

func (s *memStore) OpenPeerShift(ctx context.Context, ambulanceID int64, excludeEmployeeID int64, categoryID int64) (*model.PunchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openShiftLocked(func(e *model.PunchEvent) bool {
		if e.EmployeeID == excludeEmployeeID || e.AmbulanceID == nil || *e.AmbulanceID != ambulanceID {
			return false
		}
		emp, ok := s.employees[e.EmployeeID]
		return ok && !emp.DeletedAt.Valid && emp.CategoryID != nil && *emp.CategoryID == categoryID
	}), nil
}

func (s *memStore) openShiftLocked(match func(*model.PunchEvent) bool) *model.PunchEvent {
	var latest *model.PunchEvent
	for _, e := range s.events {
		if e.Status != model.StatusPunchIn || e.PunchOutType != model.PunchOutManual || !match(e) {
			continue
		}
		if latest == nil || after(e, latest) {
			latest = e
		}
	}
	if latest == nil {
		return nil
	}
	for _, e := range s.events {
		if e.EmployeeID == latest.EmployeeID && e.Status == model.StatusPunchOut && after(e, latest) {
			return nil
		}
	}
	cp := *latest
	return &cp
}

// after reports whether a sorts strictly later than b: by punch time,
// insertion order breaking ties.
func after(a, b *model.PunchEvent) bool {
	if a.PunchTime.Equal(b.PunchTime.Time) {
		return a.ID > b.ID
	}
	return a.PunchTime.After(b.PunchTime.Time)
}

func (s *memStore) HasAutoCloseSince(ctx context.Context, shift *model.PunchEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.EmployeeID != shift.EmployeeID || e.Status != model.StatusPunchOut ||
			e.PunchOutType != model.PunchOutAuto || e.Date != shift.Date {
			continue
		}
		if shift.AmbulanceID != nil && !e.OnAmbulance(shift.AmbulanceID) {
			continue
		}
		if !e.PunchTime.Before(shift.PunchTime.Time) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Append(ctx context.Context, events ...*model.PunchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend {
		return errors.New("storage unavailable")
	}
	for _, e := range events {
		s.nextID++
		e.ID = s.nextID
		cp := *e
		s.events = append(s.events, &cp)
	}
	return nil
}

func (s *memStore) openShiftCount(employeeID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, in := range s.events {
		if in.EmployeeID != employeeID || in.Status != model.StatusPunchIn || in.PunchOutType != model.PunchOutManual {
			continue
		}
		closed := false
		for _, out := range s.events {
			if out.EmployeeID == employeeID && out.Status == model.StatusPunchOut && after(out, in) {
				closed = true
				break
			}
		}
		if !closed {
			count++
		}
	}
	return count
}
