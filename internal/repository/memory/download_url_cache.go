package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DownloadURL is a presigned GET url and the moment it stops working.
type DownloadURL struct {
	URL       string
	ExpiresAt time.Time
}

// DownloadURLCache keeps presigned download urls per attachment so repeated
// opens of the same file do not sign a new url every time.
type DownloadURLCache struct {
	cache *cache.Cache
	// Entries are evicted this long before the url itself expires.
	margin time.Duration
}

func NewDownloadURLCache(margin time.Duration) *DownloadURLCache {
	return &DownloadURLCache{
		cache:  cache.New(cache.NoExpiration, 10*time.Minute),
		margin: margin,
	}
}

func (r *DownloadURLCache) Save(attachmentID uuid.UUID, url string, expiresAt time.Time) {
	ttl := time.Until(expiresAt) - r.margin
	if ttl <= 0 {
		return
	}
	r.cache.Set(attachmentID.String(), DownloadURL{URL: url, ExpiresAt: expiresAt}, ttl)
}

func (r *DownloadURLCache) Get(attachmentID uuid.UUID) (DownloadURL, bool) {
	if x, found := r.cache.Get(attachmentID.String()); found {
		return x.(DownloadURL), true
	}
	return DownloadURL{}, false
}

// Delete is called whenever the attachment's object changes or goes away.
func (r *DownloadURLCache) Delete(attachmentID uuid.UUID) {
	r.cache.Delete(attachmentID.String())
}
