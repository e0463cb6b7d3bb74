package models

// User owns categories and transactions. Users are created out of band and are
// never modified through the API.
type User struct {
	Base
	Email string `gorm:"uniqueIndex;not null" json:"email"`
}
