package repository

import "github.com/Memoriestore01/Memoriestore-sub001/internal/models"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	CategoryID   uint
	CategorySlug string
	Search       string
	OnlyActive   bool
	WithCategory bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page      int
	PageSize  int
	AccountID uint
	Status    string
	OrderNo   string
}

// AccountListFilter 查询账号列表的过滤条件
type AccountListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	Role     *models.Role
	Active   *bool
}
