package Models

import "gorm.io/gorm"

// User is an account allowed to use the journal API. Permission levels:
// 1 read, 2 write, 4 admin.
type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`
}
