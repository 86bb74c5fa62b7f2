package core

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"rakshak.com/rakshak/attendance/model"
)

// GormStore binds the Store interface to a per-request gorm.DB. Punch
// times are stored in the fixed-width datetime layout, so ordering by
// the column matches chronological order.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Employee(ctx context.Context, id int64) (*model.Employee, error) {
	var emp model.Employee
	err := s.db.WithContext(ctx).Preload("Category").First(&emp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *GormStore) Ambulance(ctx context.Context, id int64) (*model.Ambulance, error) {
	var amb model.Ambulance
	err := s.db.WithContext(ctx).First(&amb, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &amb, nil
}

func (s *GormStore) OpenShift(ctx context.Context, employeeID int64) (*model.PunchEvent, error) {
	var in model.PunchEvent
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND status = ? AND punch_out_type = ?",
			employeeID, model.StatusPunchIn, model.PunchOutManual).
		Order("punch_time DESC, id DESC").
		First(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.ifStillOpen(ctx, &in)
}

func (s *GormStore) OpenPeerShift(ctx context.Context, ambulanceID int64, excludeEmployeeID int64, categoryID int64) (*model.PunchEvent, error) {
	var in model.PunchEvent
	err := s.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = attendances.employee_id").
		Where("attendances.ambulance_id = ?", ambulanceID).
		Where("attendances.status = ? AND attendances.punch_out_type = ?",
			model.StatusPunchIn, model.PunchOutManual).
		Where("attendances.employee_id <> ?", excludeEmployeeID).
		Where("employees.category_id = ?", categoryID).
		Where("employees.deleted_at IS NULL").
		Order("attendances.punch_time DESC, attendances.id DESC").
		First(&in).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.ifStillOpen(ctx, &in)
}

// ifStillOpen returns the punch-in unless a later punch-out exists for
// the same employee. Ties on punch time break by insertion order.
func (s *GormStore) ifStillOpen(ctx context.Context, in *model.PunchEvent) (*model.PunchEvent, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PunchEvent{}).
		Where("employee_id = ? AND status = ?", in.EmployeeID, model.StatusPunchOut).
		Where("punch_time > ? OR (punch_time = ? AND id > ?)", in.PunchTime, in.PunchTime, in.ID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}
	return in, nil
}

func (s *GormStore) HasAutoCloseSince(ctx context.Context, shift *model.PunchEvent) (bool, error) {
	q := s.db.WithContext(ctx).Model(&model.PunchEvent{}).
		Where("employee_id = ? AND status = ? AND punch_out_type = ? AND date = ?",
			shift.EmployeeID, model.StatusPunchOut, model.PunchOutAuto, shift.Date).
		Where("punch_time >= ?", shift.PunchTime)
	if shift.AmbulanceID != nil {
		q = q.Where("ambulance_id = ?", *shift.AmbulanceID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormStore) Append(ctx context.Context, events ...*model.PunchEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range events {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
