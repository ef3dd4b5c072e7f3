package dto

// PublishBookRequest 上架请求
// stock为初始馆藏数量，同一事务内创建库存记录
type PublishBookRequest struct {
	ISBN        string `json:"isbn" binding:"required" example:"9787115428028"`
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher   string `json:"publisher" binding:"required,max=100" example:"人民邮电出版社"`
	Stock       int    `json:"stock" binding:"min=0" example:"3"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
}

// ListBooksRequest 图书列表查询
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=title_asc created_at_desc" example:"created_at_desc"`
}

// AdjustStockRequest 库存调整，正数入库负数出库
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required" example:"2"`
}
