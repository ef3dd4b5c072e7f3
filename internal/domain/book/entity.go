package book

import (
	"time"
)

// Book 图书实体（聚合根）
// 馆藏数量不在图书上，由stock.Stock记录
type Book struct {
	ID          uint
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	CoverURL    string
	Description string
	PublisherID uint // 上架馆员的用户ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书
func NewBook(isbn, title, author, publisher, coverURL, description string, publisherID uint) *Book {
	now := time.Now()
	return &Book{
		ISBN:        isbn,
		Title:       title,
		Author:      author,
		Publisher:   publisher,
		CoverURL:    coverURL,
		Description: description,
		PublisherID: publisherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
