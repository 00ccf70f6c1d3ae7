package relink

import (
	"time"
)

// The keep-alive emitter sends the configured payload as a regular text
// frame at a fixed cadence while the connection is open. It exists for
// servers that cull idle clients at the application layer, where protocol
// pings do not count as activity.

func (c *managedClient) startHeartbeatLocked(gen uint64) {
	if !c.cfg.heartbeatEnabled() {
		return
	}
	c.stopHeartbeatLocked()
	c.heartbeatTimer = time.AfterFunc(c.cfg.HeartbeatInterval, func() {
		c.heartbeatFire(gen)
	})
}

func (c *managedClient) stopHeartbeatLocked() {
	if c.heartbeatTimer != nil {
		c.heartbeatTimer.Stop()
		c.heartbeatTimer = nil
	}
}

// heartbeatFire writes one keep-alive frame and rearms the timer. A tick
// that outlived its connection (stopped timers can still fire once) checks
// gen and state first and bows out.
func (c *managedClient) heartbeatFire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateOpen || c.conn == nil {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	timer := c.heartbeatTimer
	c.mu.Unlock()

	c.logger.Debugf("=> [KEEPALIVE] %s", c.cfg.HeartbeatPayload)

	if err := conn.WriteMessage(DataMessage, []byte(c.cfg.HeartbeatPayload)); err != nil {
		// The read loop will notice the dead socket; no rearm.
		c.logger.Warnf("keep-alive write failed: %s", err)
		return
	}

	if timer != nil {
		timer.Reset(c.cfg.HeartbeatInterval)
	}
}
