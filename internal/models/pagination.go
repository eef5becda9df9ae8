package models

// PaginationParams — параметры постраничной выдачи.
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset возвращает смещение первой записи страницы.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PaginationResponse — метаданные страницы.
type PaginationResponse struct {
	TotalItems   int `json:"total_items"`
	TotalPages   int `json:"total_pages"`
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
}

// NewPaginationResponse считает количество страниц для total записей.
func NewPaginationResponse(p PaginationParams, total int) PaginationResponse {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return PaginationResponse{
		TotalItems:   total,
		TotalPages:   pages,
		CurrentPage:  p.Page,
		ItemsPerPage: p.PageSize,
	}
}

// NewsPage — страница новостей для главной.
type NewsPage struct {
	Items      []News             `json:"object_list"`
	Pagination PaginationResponse `json:"pagination"`
}
