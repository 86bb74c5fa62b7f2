package model

import (
	"time"

	"gorm.io/gorm"
)

type Roster struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	RosterDate  time.Time      `gorm:"column:roster_date;type:date;not null;index" json:"rosterDate"`
	Shift       string         `gorm:"column:shift;type:varchar(20);not null" json:"shift"`
	AmbulanceID *int64         `gorm:"column:ambulance_id" json:"-"`
	ManagerID   *int64         `gorm:"column:manager_id" json:"-"`
	EmtID       *int64         `gorm:"column:emt_id" json:"-"`
	DriverID    *int64         `gorm:"column:driver_id" json:"-"`
	CreatedAt   time.Time      `json:"-"`
	UpdatedAt   time.Time      `json:"-"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Ambulance *Ambulance `gorm:"foreignKey:AmbulanceID" json:"-"`
	Manager   *Employee  `gorm:"foreignKey:ManagerID" json:"-"`
	Emt       *Employee  `gorm:"foreignKey:EmtID" json:"-"`
	Driver    *Employee  `gorm:"foreignKey:DriverID" json:"-"`
}

func (Roster) TableName() string {
	return "rosters"
}
