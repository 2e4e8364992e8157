package model

import "time"

// MultipleBinaryFlagModel is the GORM-specific struct for the 'multiple_binary_flags' table.
// Rows are insert-only; lookups by view take the highest ID.
type MultipleBinaryFlagModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	View      string `gorm:"column:flag_view;type:text;not null;index:idx_multiple_binary_flags_view;check:chk_multiple_binary_flags_view,flag_view <> ''"`
	Value     *bool  `gorm:"column:flag_value"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (MultipleBinaryFlagModel) TableName() string {
	return "multiple_binary_flags"
}
