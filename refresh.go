package relink

import (
	"time"
)

// The refresh timer rotates a healthy connection once it reaches the
// configured lifetime. Some endpoints cut long-lived connections on their
// own schedule; rotating first keeps the closure clean and on our terms.

func (c *managedClient) startRefreshLocked(gen uint64) {
	if !c.cfg.refreshEnabled() {
		return
	}
	c.stopRefreshLocked()
	c.refreshTimer = time.AfterFunc(c.cfg.RefreshInterval, func() {
		c.refreshFire(gen)
	})
}

func (c *managedClient) stopRefreshLocked() {
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
}

// refreshFire swaps the current handle for a fresh one, using the same
// teardown a user-initiated Reconnect performs. Stale fires, after the
// client already moved on, check gen and state first and bow out.
func (c *managedClient) refreshFire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateOpen || c.conn == nil {
		c.mu.Unlock()
		return
	}
	c.stopHeartbeatLocked()
	c.refreshTimer = nil
	conn := c.conn
	c.gen++
	c.conn = nil
	c.state = StateClosed
	c.scheduleReconnectLocked(c.gen, reconnectKickDelay)
	c.mu.Unlock()

	c.logger.Infof("connection reached its %s lifetime, replacing it", c.cfg.RefreshInterval)
	c.closeCleanly(conn)
}
