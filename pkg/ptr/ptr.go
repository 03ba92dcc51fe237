package ptr

import (
	"net"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	// cacheTTL bounds how long a PTR answer, positive or negative, is reused.
	cacheTTL      = 10 * time.Minute
	cacheCapacity = 1024
)

// PtrManager performs reverse lookups and caches the answers.
type PtrManager struct {
	cache      *ttlcache.Cache[string, string]
	lookupFunc func(ip string) ([]string, error)
	retries    int
	retryDelay time.Duration
}

// NewPtrManager creates a new PtrManager
func NewPtrManager() *PtrManager {
	return &PtrManager{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, string](cacheTTL),
			ttlcache.WithCapacity[string, string](cacheCapacity),
		),
		lookupFunc: net.LookupAddr,
		retries:    3,
		retryDelay: 100 * time.Millisecond,
	}
}

// Lookup returns the PTR name for ip, querying DNS on a cache miss.
// Failed lookups are cached as empty so they are not retried for every probe.
func (pm *PtrManager) Lookup(ip string) (string, bool) {
	if item := pm.cache.Get(ip); item != nil {
		return item.Value(), item.Value() != ""
	}

	name := ""
	for attempt := range pm.retries {
		names, err := pm.lookupFunc(ip)
		if err == nil && len(names) > 0 {
			name = normalizePTR(names[0])
			break
		}
		if attempt < pm.retries-1 {
			time.Sleep(pm.retryDelay)
		}
	}

	pm.cache.Set(ip, name, ttlcache.DefaultTTL)
	return name, name != ""
}

// normalizePTR strips the trailing dot of a fully qualified name.
func normalizePTR(name string) string {
	return strings.TrimSuffix(name, ".")
}
