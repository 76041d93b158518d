package client

import (
	"context"
	"sync"
	"time"
)

// StatusPoller checks backend connectivity on a fixed interval and reports
// changes through a callback. Stop tears the poller down; it is safe to
// call more than once.
type StatusPoller struct {
	client   *Client
	interval time.Duration
	onChange func(online bool)

	mu     sync.Mutex
	online bool
	stop   chan struct{}
	done   chan struct{}
}

// NewStatusPoller creates a poller. onChange may be nil.
func NewStatusPoller(c *Client, interval time.Duration, onChange func(online bool)) *StatusPoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatusPoller{
		client:   c,
		interval: interval,
		onChange: onChange,
	}
}

// Online reports the last observed connectivity state.
func (p *StatusPoller) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Start begins polling in the background until Stop is called or ctx ends.
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.stop != nil {
		p.mu.Unlock()
		return
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	stop, done := p.stop, p.done
	p.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.check(ctx)
		for {
			select {
			case <-ticker.C:
				p.check(ctx)
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop tears down the poller and waits for the polling goroutine to exit.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop, p.done = nil, nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (p *StatusPoller) check(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	err := p.client.get(reqCtx, "/health", nil, nil)
	online := err == nil

	p.mu.Lock()
	changed := online != p.online
	p.online = online
	p.mu.Unlock()

	if changed && p.onChange != nil {
		p.onChange(online)
	}
}
