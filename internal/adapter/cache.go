package adapter

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// ToolsSnapshot is one immutable view of the tool cache.
type ToolsSnapshot struct {
	Tools            []json.RawMessage
	Timestamp        time.Time
	BackendConnected bool
}

// Fresh reports whether the snapshot holds tools younger than ttl.
func (s *ToolsSnapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return len(s.Tools) > 0 && now.Sub(s.Timestamp) < ttl
}

// ToolsCache is the process-wide tool list. Writers replace the whole
// snapshot; concurrent writers race and the last one wins.
type ToolsCache struct {
	snap atomic.Pointer[ToolsSnapshot]
}

func NewToolsCache() *ToolsCache {
	c := &ToolsCache{}
	c.snap.Store(&ToolsSnapshot{})
	return c
}

func (c *ToolsCache) Load() *ToolsSnapshot {
	return c.snap.Load()
}

// StoreTools records a successful fetch.
func (c *ToolsCache) StoreTools(tools []json.RawMessage, now time.Time) {
	c.snap.Store(&ToolsSnapshot{
		Tools:            tools,
		Timestamp:        now,
		BackendConnected: true,
	})
}

// SetConnected records the outcome of the latest backend attempt.
func (c *ToolsCache) SetConnected(connected bool) {
	old := c.snap.Load()
	if old.BackendConnected == connected {
		return
	}
	next := *old
	next.BackendConnected = connected
	c.snap.Store(&next)
}
