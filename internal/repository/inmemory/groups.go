package inmemory

import (
	"sync"
	"time"

	groupsdomain "splitledger/internal/domain/groups"
)

type GroupMemberCache struct {
	mu    sync.RWMutex
	items map[string]memberItem
}

type memberItem struct {
	memberIDs []string
	expiresAt time.Time
}

var _ groupsdomain.Cache = (*GroupMemberCache)(nil)

func NewGroupMemberCache() *GroupMemberCache {
	return &GroupMemberCache{
		items: make(map[string]memberItem),
	}
}

func (c *GroupMemberCache) GetMemberIDs(groupID string) ([]string, bool) {
	now := time.Now()

	c.mu.RLock()
	item, ok := c.items[groupID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[groupID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, groupID)
		}
		c.mu.Unlock()
		return nil, false
	}

	memberIDs := append([]string(nil), item.memberIDs...)
	return memberIDs, true
}

func (c *GroupMemberCache) SetMemberIDs(groupID string, memberIDs []string, ttl time.Duration) {
	if ttl <= 0 {
		c.DeleteGroup(groupID)
		return
	}

	c.mu.Lock()
	c.items[groupID] = memberItem{
		memberIDs: append([]string(nil), memberIDs...),
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *GroupMemberCache) DeleteGroup(groupID string) {
	c.mu.Lock()
	delete(c.items, groupID)
	c.mu.Unlock()
}

func (c *GroupMemberCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]memberItem)
	c.mu.Unlock()
}
