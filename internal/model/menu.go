package model

import "github.com/shopspring/decimal"

// Category 菜单分类
type Category struct {
	BaseModel
	Name      string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// MenuItem 菜单单品
type MenuItem struct {
	BaseModel
	PublicID    int64           `gorm:"uniqueIndex;not null" json:"public_id"`
	CategoryID  int64           `gorm:"not null;index:idx_menu_items_category" json:"category_id"`
	Name        string          `gorm:"type:varchar(128);not null" json:"name"`
	Description string          `gorm:"type:text;not null;default:''" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"type:varchar(512);not null;default:''" json:"image_url"`
	Available   bool            `gorm:"not null;default:true;index:idx_menu_items_available" json:"available"`

	Addons []Addon `gorm:"foreignKey:MenuItemID" json:"addons,omitempty"`
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}

// Addon 单品加料（糖浆、奶盖、额外浓缩等）
type Addon struct {
	BaseModel
	MenuItemID int64           `gorm:"not null;index:idx_addons_menu_item" json:"menu_item_id"`
	Name       string          `gorm:"type:varchar(64);not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Available  bool            `gorm:"not null;default:true" json:"available"`
}

// TableName 指定表名
func (Addon) TableName() string {
	return "addons"
}
