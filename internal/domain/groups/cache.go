package groups

import "time"

// Cache holds per-group member id lists; membership checks are on the
// hot path of every expense and balance read.
type Cache interface {
	GetMemberIDs(groupID string) ([]string, bool)
	SetMemberIDs(groupID string, memberIDs []string, ttl time.Duration)
	DeleteGroup(groupID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetMemberIDs(string) ([]string, bool) { return nil, false }

func (noopCache) SetMemberIDs(string, []string, time.Duration) {}

func (noopCache) DeleteGroup(string) {}

func (noopCache) Clear() {}
