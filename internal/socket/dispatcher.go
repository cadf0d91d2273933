package socket

import "sync"

// Dispatcher fans every inbound frame out to all subscribers. Each consumer
// of the connection gets its own subscription, so registering a new handler
// never displaces an existing one.
type Dispatcher struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func([]byte)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[int]func([]byte))}
}

// Subscribe registers a frame handler and returns its unsubscribe func.
func (d *Dispatcher) Subscribe(fn func(frame []byte)) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Publish delivers one frame to every current subscriber, in subscription
// order. Handlers run outside the dispatcher lock.
func (d *Dispatcher) Publish(frame []byte) {
	d.mu.Lock()
	handlers := make([]func([]byte), 0, len(d.subs))
	for id := 0; id < d.nextID; id++ {
		if fn, ok := d.subs[id]; ok {
			handlers = append(handlers, fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range handlers {
		fn(frame)
	}
}
