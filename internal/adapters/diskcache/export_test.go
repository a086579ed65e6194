package diskcache

import "time"

// SetClockForTest replaces the clock used for TTL checks.
func (c *Cache) SetClockForTest(now func() time.Time) {
	c.now = now
}
