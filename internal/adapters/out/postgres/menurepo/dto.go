// Package menurepo provides read access to the menu catalog table.
// Menu writes happen through an external admin surface; this package only
// loads the catalog and seeds a starter menu for fresh databases.
package menurepo

// MenuItemDTO represents a single priced menu item row.
type MenuItemDTO struct {
	Name  string `gorm:"primaryKey"`
	Price float64
}

// TableName specifies the database table name for menu items.
func (MenuItemDTO) TableName() string {
	return "menu"
}
