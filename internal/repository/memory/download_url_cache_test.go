package memory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDownloadURLCacheRoundTrip(t *testing.T) {
	c := NewDownloadURLCache(time.Minute)
	id := uuid.New()
	expires := time.Now().Add(15 * time.Minute)

	c.Save(id, "https://bucket/object?sig", expires)
	got, ok := c.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "https://bucket/object?sig", got.URL)
	assert.WithinDuration(t, expires, got.ExpiresAt, time.Millisecond)

	c.Delete(id)
	_, ok = c.Get(id)
	assert.False(t, ok)
}

func TestDownloadURLCacheSkipsNearlyExpired(t *testing.T) {
	c := NewDownloadURLCache(time.Minute)
	id := uuid.New()

	c.Save(id, "https://bucket/object?sig", time.Now().Add(30*time.Second))
	_, ok := c.Get(id)
	assert.False(t, ok)
}
