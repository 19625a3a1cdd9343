package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name  string
		in    PageRequest
		index int
		size  int
	}{
		{"defaults", PageRequest{}, 0, DefaultPageSize},
		{"negative index", PageRequest{Index: -3, Size: 5}, 0, 5},
		{"size capped", PageRequest{Index: 2, Size: 1000}, 2, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.index, got.Index)
			assert.Equal(t, tt.size, got.Size)
			assert.Equal(t, SortByCreatedAt, got.Sort)
		})
	}
}

func TestHouseOrder(t *testing.T) {
	req := HouseOrder(OrderPriceAsc, 0, 10)
	assert.Equal(t, SortByPrice, req.Sort)
	assert.Equal(t, Asc, req.Direction)

	for _, token := range []string{"", "priceDesc", "whatever"} {
		req = HouseOrder(token, 1, 10)
		assert.Equal(t, SortByCreatedAt, req.Sort, token)
		assert.Equal(t, Desc, req.Direction, token)
		assert.Equal(t, 10, req.Offset())
	}
}

func TestPage_Counts(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, NewPageRequest(0, 3), 7)
	assert.Equal(t, 3, p.TotalPages())
	assert.True(t, p.HasNext())
	assert.False(t, p.IsEmpty())

	last := NewPage[int](nil, NewPageRequest(3, 3), 7)
	assert.True(t, last.IsEmpty())
	assert.False(t, last.HasNext())
	assert.NotNil(t, last.Items)
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	req := NewPageRequest(1<<60, 10)
	assert.Equal(t, 1<<60, req.Index)
	assert.Equal(t, math.MaxInt, req.Offset())

	req = NewPageRequest(math.MaxInt, MaxPageSize)
	assert.Equal(t, math.MaxInt, req.Offset())

	p := NewPage[int](nil, req, 5)
	assert.False(t, p.HasNext())
}

func TestValidateReviewContent(t *testing.T) {
	r := func(v int) *int { return &v }

	assert.NoError(t, ValidateReviewContent(r(5), "great"))
	for _, tc := range []struct {
		rating  *int
		comment string
	}{
		{nil, "ok"},
		{r(0), "ok"},
		{r(6), "ok"},
		{r(3), "   "},
	} {
		err := ValidateReviewContent(tc.rating, tc.comment)
		assert.True(t, errors.Is(err, ErrValidation))
	}
}
