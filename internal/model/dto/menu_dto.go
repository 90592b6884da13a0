package dto

// ========== Menu 相关 DTO ==========

// CategoryData 分类数据
type CategoryData struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// MenuItemData 单品数据
type MenuItemData struct {
	ID          string      `json:"id"`
	CategoryID  int64       `json:"category_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	ImageURL    string      `json:"image_url"`
	Available   bool        `json:"available"`
	Addons      []AddonData `json:"addons,omitempty"`
}

// AddonData 加料数据
type AddonData struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// CreateMenuItemRequest 创建单品请求
type CreateMenuItemRequest struct {
	CategoryID  int64  `json:"category_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	ImageURL    string `json:"image_url"`
	Available   *bool  `json:"available"`
}

// UpdateMenuItemRequest 更新单品请求
type UpdateMenuItemRequest struct {
	CategoryID  *int64  `json:"category_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	ImageURL    *string `json:"image_url"`
	Available   *bool   `json:"available"`
}

// CreateAddonRequest 创建加料请求
type CreateAddonRequest struct {
	MenuItemID int64  `json:"menu_item_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Price      string `json:"price" binding:"required"`
	Available  *bool  `json:"available"`
}
