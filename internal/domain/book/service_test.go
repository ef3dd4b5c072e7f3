package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	books []*Book
}

func (m *memRepo) Create(_ context.Context, b *Book) error {
	b.ID = uint(len(m.books) + 1)
	m.books = append(m.books, b)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uint) (*Book, error) {
	for _, b := range m.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrBookNotFound
}

func (m *memRepo) FindByISBN(_ context.Context, isbn string) (*Book, error) {
	for _, b := range m.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return nil, ErrBookNotFound
}

func (m *memRepo) List(context.Context, ListParams) ([]*Book, int64, error) {
	return m.books, int64(len(m.books)), nil
}

func TestService_PublishBook(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memRepo{})

	t.Run("上架成功并规范化ISBN", func(t *testing.T) {
		b, err := svc.PublishBook(ctx, "978-7-115-42802-8", "Go语言编程", "许式伟", "人民邮电", "", "", 1)
		require.NoError(t, err)
		assert.Equal(t, "9787115428028", b.ISBN)
		assert.NotZero(t, b.ID)
	})

	t.Run("ISBN重复", func(t *testing.T) {
		_, err := svc.PublishBook(ctx, "9787115428028", "重复", "a", "p", "", "", 1)
		assert.ErrorIs(t, err, ErrISBNDuplicate)
	})

	t.Run("ISBN位数错误", func(t *testing.T) {
		_, err := svc.PublishBook(ctx, "12345", "t", "a", "p", "", "", 1)
		assert.ErrorIs(t, err, ErrInvalidISBN)
	})

	t.Run("ISBN-10末位X", func(t *testing.T) {
		b, err := svc.PublishBook(ctx, "0-8044-2957-x", "t", "a", "p", "", "", 1)
		require.NoError(t, err)
		assert.Equal(t, "080442957X", b.ISBN)
	})

	t.Run("书名为空", func(t *testing.T) {
		_, err := svc.PublishBook(ctx, "9787111111111", "  ", "a", "p", "", "", 1)
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})
}
