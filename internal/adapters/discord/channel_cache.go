package discord

import (
	"sync"
	"time"
)

const channelCacheTTL = 10 * time.Minute

type channelKey struct {
	guildID string
	name    string
}

type cachedChannel struct {
	id      string
	expires time.Time
}

// channelCache remembers channel ids looked up by name. Entries expire so a
// renamed or recreated channel is found again.
type channelCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[channelKey]cachedChannel
}

func newChannelCache(ttl time.Duration) *channelCache {
	return &channelCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[channelKey]cachedChannel),
	}
}

func (c *channelCache) Get(guildID, channelName string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.items[channelKey{guildID, channelName}]
	if !ok || !c.now().Before(entry.expires) {
		return "", false
	}
	return entry.id, true
}

func (c *channelCache) Set(guildID, channelName, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[channelKey{guildID, channelName}] = cachedChannel{id: id, expires: c.now().Add(c.ttl)}
}

func (c *channelCache) Invalidate(guildID, channelName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, channelKey{guildID, channelName})
}
