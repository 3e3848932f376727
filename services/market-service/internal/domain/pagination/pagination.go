package pagination

import (
	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a zero-based page of a list read.
type Page struct {
	Index int
	Size  int
}

// New validates index and size. Both are caller supplied.
func New(index, size int) (Page, error) {
	p := Page{Index: index, Size: size}
	if err := p.Validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

func (p Page) Validate() error {
	if p.Index < 0 || p.Size < 1 || p.Size > MaxPageSize {
		return domainerrors.ErrInvalidPage
	}
	return nil
}

// Limit is the SQL LIMIT for the page.
func (p Page) Limit() int {
	return p.Size
}

// Offset is the SQL OFFSET for the page: Index * Size.
func (p Page) Offset() int {
	return p.Index * p.Size
}
