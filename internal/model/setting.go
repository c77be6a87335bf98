package model

import "time"

// SystemSetting is a platform-wide key/value pair
type SystemSetting struct {
	Key       string    `gorm:"type:varchar(255);primaryKey" json:"key"`
	Value     *string   `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
