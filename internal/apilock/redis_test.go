package apilock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKeyConstruction(t *testing.T) {
	assert.Equal(t, "apilock:places-search:coffee:lock", lockKey("places-search:coffee"))
	assert.Equal(t, "apilock:places-search:coffee:result", resultKey("places-search:coffee"))
	assert.Equal(t, "apilock:places-search:coffee:synced", syncedKey("places-search:coffee"))

	// The three roles for one logical key never collide
	assert.NotEqual(t, lockKey("k"), resultKey("k"))
	assert.NotEqual(t, lockKey("k"), syncedKey("k"))
	assert.NotEqual(t, resultKey("k"), syncedKey("k"))
}
