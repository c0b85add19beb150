package ctxstack

import "sync"

// ProgramCache stores compiled rule programs. Keys are prefixed with the
// engine name so one cache can serve several evaluators.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryProgramCache is a ProgramCache backed by sync.Map.
type MemoryProgramCache struct {
	data sync.Map
}

// NewMemoryProgramCache returns an empty cache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{}
}

// Get implements ProgramCache.
func (c *MemoryProgramCache) Get(key string) (any, bool) {
	return c.data.Load(key)
}

// Set implements ProgramCache.
func (c *MemoryProgramCache) Set(key string, value any) {
	c.data.Store(key, value)
}

// Len counts cached programs.
func (c *MemoryProgramCache) Len() int {
	count := 0
	c.data.Range(func(any, any) bool {
		count++
		return true
	})
	return count
}

func cacheKey(engine, expression string) string {
	return engine + ":" + expression
}
