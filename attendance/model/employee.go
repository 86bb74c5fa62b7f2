package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name           string         `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description    *string        `gorm:"column:description;type:varchar(255)" json:"description"`
	ShiftStartTime *string        `gorm:"column:shift_start_time;type:varchar(10)" json:"shiftStartTime"`
	ShiftEndTime   *string        `gorm:"column:shift_end_time;type:varchar(10)" json:"shiftEndTime"`
	CreatedAt      time.Time      `json:"-"`
	UpdatedAt      time.Time      `json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

type Employee struct {
	ID               int64          `gorm:"primaryKey;autoIncrement;column:id" json:"employeeId"`
	EmployeeSystemID string         `gorm:"column:employee_system_id;type:varchar(50);not null;index" json:"employeeSystemId"`
	Name             string         `gorm:"column:name;type:varchar(100);not null" json:"name"`
	PhoneNumber      string         `gorm:"column:phone_number;type:varchar(20);uniqueIndex" json:"phoneNumber"`
	CategoryID       *int64         `gorm:"column:category_id" json:"-"`
	AwsFaceID        *string        `gorm:"column:aws_face_id;type:varchar(100)" json:"awsFaceId"`
	FaceImageData    *string        `gorm:"column:face_image_data;type:mediumtext" json:"-"`
	CreatedAt        time.Time      `json:"-"`
	UpdatedAt        time.Time      `json:"-"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}
