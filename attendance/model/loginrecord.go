package model

import "time"

// DeviceLoginRecord is an audit row written on every successful device
// login. Never updated.
type DeviceLoginRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DeviceID   int64     `gorm:"column:device_id;not null;index" json:"deviceId"`
	Username   string    `gorm:"column:username;type:varchar(50);not null" json:"username"`
	IMEI       string    `gorm:"column:imei;type:varchar(50)" json:"imei"`
	AppVersion *string   `gorm:"column:app_version;type:varchar(20)" json:"appVersion"`
	IPAddress  string    `gorm:"column:ip_address;type:varchar(45)" json:"ipAddress"`
	LoginAt    time.Time `gorm:"column:login_at;not null" json:"loginAt"`
}

func (DeviceLoginRecord) TableName() string {
	return "device_login_records"
}
