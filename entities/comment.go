package entities

type Comment struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedBy uint   `json:"created_by"`
	CreatedOn int64  `json:"created_on"` // unix seconds
	RecipeID  uint   `json:"recipe_id"`
	Comment   string `gorm:"type:text" json:"comment"`
	// Parent points at another comment on the same recipe, enabling threads.
	// Never validated against the parent's recipe; comments are append-only.
	Parent *uint `json:"parent,omitempty"`

	User   *User   `gorm:"foreignKey:CreatedBy" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}
