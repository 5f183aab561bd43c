package model

// User represents an authenticated user in the system.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;size:255;not null"` // Never expose in JSON
	IsActive     bool   `json:"is_active" gorm:"default:true"`

	Favorites []Favorite `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
