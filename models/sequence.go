package models

// Sequence is a named counter row. SQL stores reserve order numbers by
// incrementing Value in place.
type Sequence struct {
	Name  string `gorm:"primaryKey;type:varchar(50)"`
	Value int64  `gorm:"not null;default:0"`
}

func (Sequence) TableName() string {
	return "sequences"
}
