package model

import "time"

type PunchStatus string

const (
	StatusPunchIn  PunchStatus = "PunchIn"
	StatusPunchOut PunchStatus = "PunchOut"
)

type PunchOutType string

const (
	PunchOutManual PunchOutType = "manual"
	PunchOutAuto   PunchOutType = "auto"
)

type ResponseStatus string

const (
	ResponseSuccess ResponseStatus = "Success"
	ResponseFailure ResponseStatus = "Failure"
)

// PunchEvent is one row of the append-only attendance log. Rows are
// created once and never updated or deleted; open-shift state is always
// recomputed by query. An auto punch-out row is only ever written by
// the reconciliation engine, never submitted by a device.
type PunchEvent struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	EmployeeID     int64          `gorm:"column:employee_id;not null;index" json:"employeeId"`
	AmbulanceID    *int64         `gorm:"column:ambulance_id;index" json:"ambulanceId"`
	ShiftType      string         `gorm:"column:shift_type;type:varchar(50)" json:"shiftType"`
	Status         PunchStatus    `gorm:"column:status;type:varchar(20);not null" json:"status"`
	PunchOutType   PunchOutType   `gorm:"column:punch_out_type;type:varchar(10);not null" json:"punchOutType"`
	PunchTime      Timestamp      `gorm:"column:punch_time;type:varchar(30)" json:"punchTime"`
	PunchLocation  string         `gorm:"column:punch_location;type:varchar(255)" json:"punchLocation"`
	Date           string         `gorm:"column:date;type:varchar(10);not null;index" json:"date"`
	DeviceMode     string         `gorm:"column:device_mode;type:varchar(50)" json:"deviceMode"`
	ImageCapture   string         `gorm:"column:image_capture;type:varchar(512)" json:"imageCapture"`
	ResponseStatus ResponseStatus `gorm:"column:response_status;type:varchar(20)" json:"responseStatus"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"-"`
}

func (PunchEvent) TableName() string {
	return "attendances"
}

// OnAmbulance reports whether the event was recorded on the given
// ambulance. A nil ambulance on either side never matches.
func (e *PunchEvent) OnAmbulance(ambulanceID *int64) bool {
	if e.AmbulanceID == nil || ambulanceID == nil {
		return false
	}
	return *e.AmbulanceID == *ambulanceID
}
