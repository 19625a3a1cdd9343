package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUtcNow_MillisecondPrecision(t *testing.T) {
	for i := 0; i < 5; i++ {
		now := utcNow()
		assert.Equal(t, time.UTC, now.Location())
		assert.Zero(t, now.Nanosecond()%int(time.Millisecond))
	}
}
