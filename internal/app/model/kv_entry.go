package model

import "time"

// KVEntry backs the SQL flavour of the persistent session store.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(255)" json:"key"` // namespaced key, e.g. session:<id>:cart
	Value     string    `gorm:"type:text;not null" json:"value"`         // serialized value
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
