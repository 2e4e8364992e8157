package entity

import "time"

// FlagRecord is a persisted snapshot of a MultipleBinaryFlag.
// Records are insert-only; a newer record with the same view shadows older ones.
type FlagRecord struct {
	ID        int64     `json:"id"`
	View      string    `json:"view"`
	Value     *bool     `json:"value"` // nil when the store holds no value
	CreatedAt time.Time `json:"created_at"`
}

// FlagSnapshot is what a lookup by ID returns. The zero value means "not found".
type FlagSnapshot struct {
	View  string `json:"view"`
	Value *bool  `json:"value"`
}

// Found reports whether the snapshot came from an existing record.
func (s FlagSnapshot) Found() bool {
	return s.View != "" || s.Value != nil
}
