package repository

import "gorm.io/gorm"

// pageWindow 由页码与页大小换算出的 LIMIT / OFFSET
type pageWindow struct {
	limit  int
	offset int
}

// newPageWindow 页大小非正时不分页，页码小于 1 按第一页处理
func newPageWindow(page, pageSize int) (pageWindow, bool) {
	if pageSize <= 0 {
		return pageWindow{}, false
	}
	if page < 1 {
		page = 1
	}
	return pageWindow{limit: pageSize, offset: (page - 1) * pageSize}, true
}

func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	window, ok := newPageWindow(page, pageSize)
	if query == nil || !ok {
		return query
	}
	return query.Limit(window.limit).Offset(window.offset)
}
