package engine

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/julianstephens/seq4d/internal/config"
	"github.com/julianstephens/seq4d/internal/logger"
	"github.com/julianstephens/seq4d/internal/models"
)

// profileCache resolves category appearance profiles once per configuration
// and serves every later lookup from the cache. Invalidate must be called
// when the profile configuration changes.
type profileCache struct {
	cfg   *config.Config
	cache *lru.Cache[models.TaskCategory, models.AppearanceProfile]
}

func newProfileCache(cfg *config.Config) *profileCache {
	cache, err := lru.New[models.TaskCategory, models.AppearanceProfile](64)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &profileCache{cfg: cfg, cache: cache}
}

// Get returns the profile for a category, falling back to the undefined
// profile when the category's spec fails to compile.
func (p *profileCache) Get(category models.TaskCategory) models.AppearanceProfile {
	if profile, ok := p.cache.Get(category); ok {
		return profile
	}
	profile, err := p.cfg.ProfileFor(category)
	if err != nil {
		logger.Warn("appearance profile unusable, using defaults", "category", string(category), "err", err)
		profile, _ = config.Default().ProfileFor(models.CategoryUndefined)
	}
	p.cache.Add(category, profile)
	return profile
}

// Invalidate drops all resolved profiles, including the config's own
// compiled memo, so edited specs recompile on the next lookup.
func (p *profileCache) Invalidate() {
	p.cfg.Invalidate()
	p.cache.Purge()
}
