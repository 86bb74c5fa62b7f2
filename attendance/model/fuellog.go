package model

import "time"

type FuelLog struct {
	ID                         int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AmbulanceID                int64     `gorm:"column:ambulance_id;not null;index" json:"ambulanceId"`
	InvoiceFileURL             string    `gorm:"column:invoice_file_url;type:varchar(512);not null" json:"invoiceFileUrl"`
	FuelType                   string    `gorm:"column:fuel_type;type:varchar(20);not null" json:"fuelType"`
	SoftwareReadingLitres      string    `gorm:"column:software_reading_litres;type:varchar(20)" json:"softwareReadingLitres"`
	SoftwareReadingUnitPrice   string    `gorm:"column:software_reading_unit_price;type:varchar(20)" json:"softwareReadingUnitPrice"`
	SoftwareReadingTotalAmount string    `gorm:"column:software_reading_total_amount;type:varchar(20)" json:"softwareReadingTotalAmount"`
	ManualReadingLitres        string    `gorm:"column:manual_reading_litres;type:varchar(20)" json:"manualReadingLitres"`
	ManualReadingUnitPrice     string    `gorm:"column:manual_reading_unit_price;type:varchar(20)" json:"manualReadingUnitPrice"`
	ManualReadingTotalAmount   string    `gorm:"column:manual_reading_total_amount;type:varchar(20)" json:"manualReadingTotalAmount"`
	FuelDateTime               Timestamp `gorm:"column:fuel_date_time;type:varchar(30)" json:"fuelDateTime"`
	Location                   string    `gorm:"column:location;type:varchar(255)" json:"location"`
	Latitude                   string    `gorm:"column:latitude;type:varchar(30)" json:"latitude"`
	Longitude                  string    `gorm:"column:longitude;type:varchar(30)" json:"longitude"`
	CreatedAt                  time.Time `json:"-"`
}

func (FuelLog) TableName() string {
	return "ambulance_fuel_logs"
}
