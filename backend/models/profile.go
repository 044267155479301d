package models

import "time"

// ProfileEntry is one stored profile field of one device. The pair
// (DeviceID, Key) is unique; writes upsert on it.
type ProfileEntry struct {
	ID        uint   `gorm:"primarykey"`
	DeviceID  string `gorm:"size:64;not null;uniqueIndex:idx_profile_entry_device_key"`
	Key       string `gorm:"size:128;not null;uniqueIndex:idx_profile_entry_device_key"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfileEntry) TableName() string {
	return "profile_entries"
}

// All returns every model the service migrates.
func All() []interface{} {
	return []interface{}{&ProfileEntry{}}
}
