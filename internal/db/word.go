package db

// Word is one dictionary entry, stored lowercase.
type Word struct {
	ID   uint   `gorm:"primaryKey"`
	Text string `gorm:"size:32;uniqueIndex;not null"`
}
