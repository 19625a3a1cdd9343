package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SortKey names a sortable attribute. Stores map it to their own column names.
type SortKey string

const (
	SortByCreatedAt SortKey = "created_at"
	SortByPrice     SortKey = "price"
)

// Direction of a sort.
type Direction int

const (
	Desc Direction = iota
	Asc
)

// House listing order tokens accepted from clients.
const OrderPriceAsc = "priceAsc"

// PageRequest selects one page of an ordered collection. Ties on Sort are
// broken by ID in the same Direction, so the order is total.
type PageRequest struct {
	Index     int
	Size      int
	Sort      SortKey
	Direction Direction
}

// NewPageRequest returns a newest-first request with defaults applied.
func NewPageRequest(index, size int) PageRequest {
	return PageRequest{Index: index, Size: size, Sort: SortByCreatedAt, Direction: Desc}.Normalize()
}

// HouseOrder maps an order token to a page request. Unknown or empty tokens
// fall back to newest first.
func HouseOrder(token string, index, size int) PageRequest {
	req := NewPageRequest(index, size)
	if token == OrderPriceAsc {
		req.Sort = SortByPrice
		req.Direction = Asc
	}
	return req
}

// Normalize clamps the index and size into range and fills in the default sort.
func (r PageRequest) Normalize() PageRequest {
	if r.Index < 0 {
		r.Index = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	if r.Sort == "" {
		r.Sort = SortByCreatedAt
	}
	return r
}

// Offset is the number of items before the first item of the page. It
// saturates at math.MaxInt, so a huge index selects an empty page.
func (r PageRequest) Offset() int {
	if r.Index <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Index > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Index * r.Size
}

// Page is one slice of an ordered collection plus the collection's size.
type Page[T any] struct {
	Items []T
	Index int
	Size  int
	Total int64
}

// NewPage builds a page for req. A nil items slice becomes empty.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Index: req.Index, Size: req.Size, Total: total}
}

func (p Page[T]) IsEmpty() bool { return len(p.Items) == 0 }

// TotalPages is the number of pages of Size needed to hold Total items.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) HasNext() bool { return p.Index < p.TotalPages()-1 }
