package statistics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/cache"
)

const (
	CacheKeyProviders = "statistics:providers:total"
	CacheKeyPolicies  = "statistics:policies:total"
	CacheKeyClaims    = "statistics:claims:total"
	CacheExpiration   = 5 * time.Minute
)

// Totals holds the entity counters served on the stats endpoint.
type Totals struct {
	Providers int64 `json:"providers"`
	Policies  int64 `json:"policies"`
	Claims    int64 `json:"claims"`
}

// GetTotals returns entity counts, serving from the cache when warm and
// recounting from the database on a miss.
func GetTotals() (*Totals, error) {
	providers, pOK := cachedCount(CacheKeyProviders)
	policies, polOK := cachedCount(CacheKeyPolicies)
	claims, cOK := cachedCount(CacheKeyClaims)

	if pOK && polOK && cOK {
		return &Totals{Providers: providers, Policies: policies, Claims: claims}, nil
	}

	return Refresh()
}

// Refresh recounts from the database and rewrites the cache.
func Refresh() (*Totals, error) {
	repos := repository.GetGlobalRepositories()

	providers, err := repos.Provider.Count()
	if err != nil {
		return nil, err
	}
	policies, err := repos.Policy.Count()
	if err != nil {
		return nil, err
	}
	claims, err := repos.Claim.Count()
	if err != nil {
		return nil, err
	}

	storeCount(CacheKeyProviders, providers)
	storeCount(CacheKeyPolicies, policies)
	storeCount(CacheKeyClaims, claims)

	return &Totals{Providers: providers, Policies: policies, Claims: claims}, nil
}

// Invalidate drops the cached counters so the next read recounts.
func Invalidate() {
	for _, key := range []string{CacheKeyProviders, CacheKeyPolicies, CacheKeyClaims} {
		if err := cache.Delete(key); err != nil {
			log.Debugf("[Statistics] Failed to drop %s: %v", key, err)
		}
	}
}

func cachedCount(key string) (int64, bool) {
	val, err := cache.Get(key)
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func storeCount(key string, count int64) {
	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Debugf("[Statistics] Failed to cache %s: %v", key, err)
	}
}
