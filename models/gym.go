package models

import "gorm.io/gorm"

type Gym struct {
	gorm.Model
	Name      string `gorm:"not null"`
	Address   string
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`

	UserEquipment []UserEquipment
}
