// Package responseCache memoizes answers per question, target and category.
// Expiry is lazy: an expired entry is removed by the lookup that finds it.
package responseCache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/qaModel"
)

type entry struct {
	response qaModel.Response
	created  time.Time
}

type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int
	evict    int
	now      func() time.Time
}

func New() *Cache {
	return &Cache{
		entries:  make(map[string]entry),
		ttl:      config.ResponseCacheTTL,
		capacity: config.ResponseCacheCapacity,
		evict:    config.ResponseCacheEvictCount,
		now:      time.Now,
	}
}

// Key is md5(lower(trim(question)) + "_" + targetId + "_" + category).
func Key(question, targetId string, category qaModel.Category) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(question)) + "_" + targetId + "_" + string(category)))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) Get(question, targetId string, category qaModel.Category) (qaModel.Response, bool) {
	key := Key(question, targetId, category)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return qaModel.Response{}, false
	}
	if c.now().Sub(e.created) >= c.ttl {
		delete(c.entries, key)
		return qaModel.Response{}, false
	}
	return e.response.Clone(), true
}

// Put stores a copy of resp. Conversational and personal answers are skipped.
func (c *Cache) Put(question, targetId string, category qaModel.Category, resp qaModel.Response) bool {
	if !qaModel.Cacheable(resp.ResponseType) {
		return false
	}
	key := Key(question, targetId, category)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{response: resp.Clone(), created: c.now()}
	if len(c.entries) > c.capacity {
		c.evictOldest()
	}
	return true
}

func (c *Cache) evictOldest() {
	type aged struct {
		key     string
		created time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{k, e.created})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].created.Before(all[j].created) })
	for _, a := range all[:min(c.evict, len(all))] {
		delete(c.entries, a.key)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry and reports how many there were.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]entry)
	return n
}
