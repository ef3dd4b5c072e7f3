package book

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`[^0-9Xx]`)

// Service 图书领域服务
type Service interface {
	// PublishBook 上架图书（只创建图书，库存记录由应用层在同一事务中创建）
	// 业务规则：ISBN为10位或13位，书名非空，ISBN不能重复
	PublishBook(ctx context.Context, isbn, title, author, publisher, coverURL, description string, publisherID uint) (*Book, error)

	GetBookByID(ctx context.Context, id uint) (*Book, error)

	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 上架图书
func (s *service) PublishBook(ctx context.Context, isbn, title, author, publisher, coverURL, description string, publisherID uint) (*Book, error) {
	clean := NormalizeISBN(isbn)
	if len(clean) != 10 && len(clean) != 13 {
		return nil, ErrInvalidISBN
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}

	existing, err := s.repo.FindByISBN(ctx, clean)
	if err == nil && existing != nil {
		return nil, ErrISBNDuplicate
	}
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		return nil, err
	}

	b := NewBook(clean, title, author, publisher, coverURL, description, publisherID)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// NormalizeISBN 去掉分隔符（978-7-115-42802-8 → 9787115428028），ISBN-10末位X转大写
func NormalizeISBN(isbn string) string {
	return strings.ToUpper(nonDigit.ReplaceAllString(isbn, ""))
}
