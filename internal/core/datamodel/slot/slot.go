package slot

import "time"

// Slot is one named value in the slots table.
type Slot struct {
	Key       string    `gorm:"column:slot_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Slot) TableName() string {
	return "slots"
}
