package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "ORDER BY price ASC, id ASC", orderBy("price", true))
	assert.Equal(t, "ORDER BY created_at DESC, id DESC", orderBy("created_at", false))
}

func TestPqCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: pqUniqueViolation})
	assert.Equal(t, pqUniqueViolation, pqCode(wrapped))
	assert.Empty(t, pqCode(errors.New("plain")))
}
