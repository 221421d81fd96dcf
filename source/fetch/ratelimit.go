package fetch

import (
	"context"
	"sync"
	"time"
)

// Controller is a token bucket. Every outbound request takes one token;
// tokens are refilled on a ticker up to capacity.
type Controller struct {
	capacity int64
	refill   int64

	mu     sync.Mutex
	tokens int64
	cond   *sync.Cond
	closed bool
	done   chan struct{}
}

func NewController(capacity, refill int64, tick time.Duration) *Controller {
	c := &Controller{
		capacity: capacity,
		refill:   refill,
		tokens:   capacity,
		done:     make(chan struct{}),
	}
	c.cond = sync.NewCond(&c.mu)

	go func() {
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-t.C:
			}
			c.mu.Lock()
			c.tokens += c.refill
			if c.tokens > c.capacity {
				c.tokens = c.capacity
			}
			c.mu.Unlock()
			c.cond.Broadcast()
		}
	}()
	return c
}

// Acquire blocks until a token is available, ctx is done or the controller
// is closed.
func (c *Controller) Acquire(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.tokens == 0 && !c.closed && ctx.Err() == nil {
		c.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed {
		return errControllerClosed
	}
	c.tokens--
	return nil
}

// Release returns n unused tokens.
func (c *Controller) Release(n int64) {
	c.mu.Lock()
	c.tokens += n
	if c.tokens > c.capacity {
		c.tokens = c.capacity
	}
	c.mu.Unlock()
	c.cond.Broadcast()
}

func (c *Controller) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	c.mu.Unlock()
	c.cond.Broadcast()
}
