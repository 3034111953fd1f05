package models

// Pizza represents a pizza with its properties
type Pizza struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// Version is bumped on every update and guards against lost writes
	Version int `gorm:"not null;default:1" json:"-"`
}

// TableName returns the table name for Pizza
func (Pizza) TableName() string {
	return "pizzas"
}
