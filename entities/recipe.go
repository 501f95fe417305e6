package entities

type Recipe struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedBy uint  `json:"created_by"`
	CreatedOn int64 `json:"created_on"` // unix seconds

	Title       string `json:"title"`
	Image       string `json:"image,omitempty"`
	Description string `gorm:"type:text" json:"description"`
	Ingredients string `gorm:"type:text" json:"ingredients"`
	// Steps holds a JSON-encoded ordered list of {description, image?}.
	Steps string `gorm:"type:text" json:"steps"`

	Published  bool `json:"published"`
	LikeRating int  `json:"like_rating"`
	Reported   bool `json:"reported"`
	ViewCount  int  `json:"view_count"`

	User *User `gorm:"foreignKey:CreatedBy" json:"-"`
	Timestamp
}
