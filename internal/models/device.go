package models

import "time"

// Device — экземпляр продукта.
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DeviceID  string `gorm:"uniqueIndex;size:64;not null" json:"deviceID"`
	ProductID string `gorm:"index;size:64;not null" json:"productID"`
	Active    bool   `gorm:"not null;default:false" json:"active"`
}

const (
	ActionStart = "start"
	ActionStop  = "stop"
)

// ActiveFor: только точное "start" включает устройство, всё остальное — выключает.
func ActiveFor(action string) bool { return action == ActionStart }
