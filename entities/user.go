package entities

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	// LikedRecipes holds a JSON-encoded ordered list of recipe ids.
	LikedRecipes string `gorm:"type:text;default:'[]'" json:"-"`

	Timestamp
}
