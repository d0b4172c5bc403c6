package schema

import (
	"time"

	"gorm.io/datatypes"
)

// KeyValueRecord stores one namespaced key-value pair.
// Namespaces isolate one function's records from another's; within a
// namespace writes to the same key are last-write-wins.
type KeyValueRecord struct {
	Namespace string         `gorm:"primaryKey;type:text"`
	Key       string         `gorm:"primaryKey;type:text"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (KeyValueRecord) TableName() string {
	return "key_value_records"
}
