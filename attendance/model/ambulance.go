package model

import (
	"time"

	"gorm.io/gorm"
)

type Ambulance struct {
	ID              int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AmbulanceNumber string         `gorm:"column:ambulance_number;type:varchar(50);uniqueIndex" json:"ambulanceNumber"`
	Type            *string        `gorm:"column:type;type:varchar(50)" json:"type"`
	CallSign        *string        `gorm:"column:call_sign;type:varchar(50)" json:"callSign"`
	Zone            *string        `gorm:"column:zone;type:varchar(50)" json:"zone"`
	Location        *string        `gorm:"column:location;type:varchar(255)" json:"location"`
	MdtMobileNumber *string        `gorm:"column:mdt_mobile_number;type:varchar(20)" json:"mdtMobileNumber"`
	SysServiceID    *string        `gorm:"column:sys_service_id;type:varchar(50)" json:"-"`
	IsSpare         bool           `gorm:"column:is_spare;not null;default:false" json:"isSpareAmbulance"`
	CreatedAt       time.Time      `json:"-"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Ambulance) TableName() string {
	return "ambulances"
}

// AmbulanceDevice is the MDT tablet mounted in an ambulance. Devices
// authenticate with username/password and report their app version.
type AmbulanceDevice struct {
	ID                int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AmbulanceID       *int64         `gorm:"column:ambulance_id" json:"-"`
	IMEI              string         `gorm:"column:imei;type:varchar(50);not null" json:"imei"`
	Username          string         `gorm:"column:username;type:varchar(50);uniqueIndex" json:"username"`
	Password          string         `gorm:"column:password;type:varchar(100)" json:"-"`
	Manufacturer      *string        `gorm:"column:manufacturer;type:varchar(50)" json:"manufacturer"`
	DeviceModelName   *string        `gorm:"column:device_model_name;type:varchar(100)" json:"deviceModelName"`
	DeviceLoginAt     *time.Time     `gorm:"column:device_login_at" json:"deviceLoginAt"`
	CurrentAppVersion *string        `gorm:"column:current_app_version;type:varchar(20)" json:"currentAppVersion"`
	LatestAppVersion  *string        `gorm:"column:latest_app_version;type:varchar(20)" json:"latestAppVersion"`
	CreatedAt         time.Time      `json:"-"`
	UpdatedAt         time.Time      `json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Ambulance *Ambulance `gorm:"foreignKey:AmbulanceID" json:"ambulance,omitempty"`
}

func (AmbulanceDevice) TableName() string {
	return "ambulance_devices"
}
